package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MemeSim/internal/batch"
	"MemeSim/internal/calculator"
	"MemeSim/internal/chart"
	"MemeSim/internal/model"
	"MemeSim/internal/notifier"
	"MemeSim/internal/recorder"
	"MemeSim/internal/sampler"
	"MemeSim/internal/simulator"
)

// Notifier delivers reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhotoWithRetry(ctx context.Context, name string, img []byte, caption string, maxRetries int) error
}

// Settings holds what the jobs need besides their collaborators.
type Settings struct {
	Params       model.Params
	Seed         uint64 // fixed seed for every job when non-zero
	Trials       int
	Workers      int
	Unit         string
	ChartStride  int
	HistoryLimit int
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Settings Settings
	Notifier Notifier
	Recorder recorder.Recorder
	Ctx      context.Context

	seedFn func() uint64
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, settings Settings, n Notifier, rec recorder.Recorder) *Scheduler {
	if settings.HistoryLimit <= 0 {
		settings.HistoryLimit = 10
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Settings: settings,
		Notifier: n,
		Recorder: rec,
		Ctx:      ctx,
		seedFn:   func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// RegisterAll registers the single-run report and the Monte Carlo report.
func (s *Scheduler) RegisterAll(simulateCron, batchCron string) error {
	if _, err := s.Cron.AddFunc(simulateCron, func() { s.simulateTask(recorder.SourceSchedule) }); err != nil {
		return fmt.Errorf("register simulate task: %w", err)
	}
	if _, err := s.Cron.AddFunc(batchCron, func() { s.batchTask(recorder.SourceSchedule) }); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	zap.S().Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	zap.S().Info("scheduler stopped")
}

// RunSimulateNow executes the simulate task immediately.
func (s *Scheduler) RunSimulateNow() {
	s.simulateTask(recorder.SourceCommand)
}

func (s *Scheduler) seed() uint64 {
	if s.Settings.Seed != 0 {
		return s.Settings.Seed
	}
	return s.seedFn()
}

func (s *Scheduler) simulateTask(source recorder.Source) {
	zap.S().Info("running simulate task")
	p := s.Settings.Params
	seed := s.seed()

	res, err := simulator.Run(p, sampler.NewPCG(seed))
	if err != nil {
		zap.S().Errorf("simulate: %v", err)
		s.trySend(fmt.Sprintf("❌ Simulation failed: %v", err))
		return
	}
	summary := calculator.Summarize(p, res)
	report := notifier.FormatRunReport(p, seed, summary, res.ExpectedValuePerAsset, s.Settings.Unit)

	if img, err := chart.Render(res, chart.Options{Stride: s.Settings.ChartStride, Unit: s.Settings.Unit}); err != nil {
		zap.S().Errorf("render chart: %v", err)
		s.trySend(report)
	} else {
		s.trySendPhoto(fmt.Sprintf("memesim_%d.png", seed), img, notifier.FormatExpectedValue(res.ExpectedValuePerAsset, s.Settings.Unit))
		s.trySend(report)
	}

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		Source:  source,
		Seed:    seed,
		Params:  p,
		Summary: summary,
		Result:  res,
	}); err != nil {
		zap.S().Errorf("record run: %v", err)
	}
}

func (s *Scheduler) batchTask(source recorder.Source) {
	zap.S().Info("running batch task")
	p := s.Settings.Params
	summary, err := batch.Run(s.Ctx, p, batch.Options{
		Trials:  s.Settings.Trials,
		Workers: s.Settings.Workers,
		Seed:    s.seed(),
	})
	if err != nil {
		zap.S().Errorf("batch: %v", err)
		s.trySend(fmt.Sprintf("❌ Monte Carlo failed: %v", err))
		return
	}
	s.trySend(notifier.FormatBatchReport(p, summary, s.Settings.Unit))

	if err := s.Recorder.RecordBatch(&recorder.BatchRecord{
		Source:  source,
		Params:  p,
		Summary: summary,
	}); err != nil {
		zap.S().Errorf("record batch: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	// "/simulate@botname" in group chats
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	switch command {
	case "/simulate":
		s.simulateTask(recorder.SourceCommand)
		return ""
	case "/batch":
		s.batchTask(recorder.SourceCommand)
		return ""
	case "/history":
		rows, err := s.Recorder.RecentRuns(s.Settings.HistoryLimit)
		if err != nil {
			zap.S().Errorf("recent runs: %v", err)
			return fmt.Sprintf("❌ History unavailable: %v", err)
		}
		return notifier.FormatHistory(rows, s.Settings.Unit)
	case "/params":
		return notifier.FormatParams(s.Settings.Params, s.Settings.Unit) + "\n" +
			notifier.FormatExpectedValue(simulator.ExpectedValuePerAsset(s.Settings.Params), s.Settings.Unit)
	default:
		return "Available commands:\n• /simulate\n• /batch\n• /history\n• /params"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		zap.S().Errorf("send notification: %v", err)
	}
}

func (s *Scheduler) trySendPhoto(name string, img []byte, caption string) {
	if err := s.Notifier.SendPhotoWithRetry(s.Ctx, name, img, caption, 3); err != nil {
		zap.S().Errorf("send chart: %v", err)
	}
}
