package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MemeSim/internal/notifier"
	"MemeSim/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduled reports and the Telegram command bot",
		Long: `Starts the cron scheduler (a daily single-run report and a weekly
Monte Carlo report) and answers /simulate, /batch, /history and /params
in the configured Telegram chat. Set RUN_ON_START=true to post a report
immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			zap.S().Info("memesim daemon starting...")

			tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			if err != nil {
				return fmt.Errorf("init telegram: %w", err)
			}

			rec := openRecorder(cfg.Database.SQLitePath, false)
			defer rec.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, scheduler.Settings{
				Params:      cfg.Params(),
				Seed:        cfg.Simulation.Seed,
				Trials:      cfg.Batch.Trials,
				Workers:     cfg.Batch.Workers,
				Unit:        cfg.Output.Unit,
				ChartStride: cfg.Output.ChartStride,
			}, tn, rec)
			if err := sched.RegisterAll(cfg.Schedule.SimulateCron, cfg.Schedule.BatchCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			zap.S().Info("telegram polling started")

			if os.Getenv("RUN_ON_START") == "true" {
				zap.S().Info("RUN_ON_START enabled, executing simulate task now")
				go sched.RunSimulateNow()
			}

			zap.S().Info("memesim is running. Press Ctrl+C to stop.")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			zap.S().Info("shutdown signal received, stopping...")
			cancel()
			return nil
		},
	}
}
