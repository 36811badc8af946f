package recorder

import (
	"time"

	"MemeSim/internal/model"
)

// Source identifies what triggered a run.
type Source string

const (
	SourceCLI      Source = "CLI"
	SourceSchedule Source = "SCHEDULE"
	SourceCommand  Source = "COMMAND"
)

// RunRecord holds everything persisted for a single simulation run.
type RunRecord struct {
	ID      string // assigned on insert when empty
	Source  Source
	Seed    uint64
	Params  model.Params
	Summary model.RunSummary
	Result  *model.Result
}

// BatchRecord holds a Monte Carlo summary.
type BatchRecord struct {
	ID      string
	Source  Source
	Params  model.Params
	Summary *model.BatchSummary
}

// RunRow is a stored run as listed by RecentRuns.
type RunRow struct {
	ID                    string
	Timestamp             time.Time
	Source                Source
	Seed                  uint64
	Purchases             int
	Success               int
	FinalEquity           float64
	ReturnMultiple        float64
	ExpectedValuePerAsset float64
}

// Recorder persists finished results for later analysis. Nothing stored here
// is read back into a simulation.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordBatch(rec *BatchRecord) error
	RecentRuns(limit int) ([]RunRow, error)
	Close() error
}
