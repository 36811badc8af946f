package recorder

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MemeSim/internal/calculator"
	"MemeSim/internal/model"
	"MemeSim/internal/sampler"
	"MemeSim/internal/simulator"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "memesim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func testRun(t *testing.T, seed uint64) *RunRecord {
	t.Helper()
	p := model.Params{
		CapitalPerAsset:   0.01,
		InitialCapital:    1,
		ShortFailureRate:  0.9,
		LongFailureRate:   0.7,
		SuccessMultiplier: 20,
		TimeHorizonHours:  96,
	}
	res, err := simulator.Run(p, sampler.NewPCG(seed))
	require.NoError(t, err)
	return &RunRecord{
		Source:  SourceCLI,
		Seed:    seed,
		Params:  p,
		Summary: calculator.Summarize(p, res),
		Result:  res,
	}
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r := newTestRecorder(t)
	rec := testRun(t, 5)
	require.NoError(t, r.RecordRun(rec))
	assert.NotEmpty(t, rec.ID)

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM run_series WHERE run_id = ?`, rec.ID).Scan(&n))
	assert.Equal(t, 96, n)

	var cash float64
	require.NoError(t, r.db.QueryRow(`SELECT cash_on_hand FROM run_series WHERE run_id = ? AND hour = 95`, rec.ID).Scan(&cash))
	assert.Equal(t, rec.Result.CashOnHand[95], cash)
}

func TestSQLiteRecorder_RecentRuns(t *testing.T) {
	r := newTestRecorder(t)
	first := testRun(t, 1)
	second := testRun(t, math.MaxUint64)
	second.Source = SourceSchedule
	require.NoError(t, r.RecordRun(first))
	require.NoError(t, r.RecordRun(second))

	rows, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, uint64(math.MaxUint64), rows[0].Seed)
	assert.Equal(t, SourceSchedule, rows[0].Source)
	assert.Equal(t, first.Summary.Purchases, rows[1].Purchases)
	assert.InDelta(t, 0.007, rows[1].ExpectedValuePerAsset, 1e-12)

	rows, err = r.RecentRuns(1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSQLiteRecorder_RecordBatch(t *testing.T) {
	r := newTestRecorder(t)
	rec := &BatchRecord{
		Source: SourceCommand,
		Params: model.Params{TimeHorizonHours: 10},
		Summary: &model.BatchSummary{
			Trials: 3, Seed: 9, MeanFinalEquity: 1.5, ProbProfit: 0.25,
		},
	}
	require.NoError(t, r.RecordBatch(rec))

	var trials int
	var prob float64
	require.NoError(t, r.db.QueryRow(`SELECT trials, prob_profit FROM batches WHERE id = ?`, rec.ID).Scan(&trials, &prob))
	assert.Equal(t, 3, trials)
	assert.Equal(t, 0.25, prob)
}

func TestSQLiteRecorder_RecordBatchDuplicateID(t *testing.T) {
	r := newTestRecorder(t)
	rec := &BatchRecord{
		ID:      "fixed-id",
		Source:  SourceCLI,
		Params:  model.Params{TimeHorizonHours: 10},
		Summary: &model.BatchSummary{Trials: 1},
	}
	require.NoError(t, r.RecordBatch(rec))

	err := r.RecordBatch(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert batch: ")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunRecord{}))
	rows, err := r.RecentRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, r.Close())
}
