package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MemeSim/internal/model"
	"MemeSim/internal/simulator"
)

func params() model.Params {
	return model.Params{
		CapitalPerAsset:   0.01,
		InitialCapital:    1,
		ShortFailureRate:  0.9,
		LongFailureRate:   0.7,
		SuccessMultiplier: 20,
		TimeHorizonHours:  1000,
	}
}

func TestRun_ReproducibleForSeed(t *testing.T) {
	ctx := context.Background()
	a, err := Run(ctx, params(), Options{Trials: 40, Workers: 4, Seed: 11})
	require.NoError(t, err)
	b, err := Run(ctx, params(), Options{Trials: 40, Workers: 1, Seed: 11})
	require.NoError(t, err)

	assert.Equal(t, a, b, "worker count must not change the summary")
	assert.Equal(t, 40, a.Trials)
	assert.Equal(t, uint64(11), a.Seed)
	assert.InDelta(t, 0.007, a.ExpectedValuePerAsset, 1e-12)
	assert.LessOrEqual(t, a.P5FinalEquity, a.MedianFinalEquity)
	assert.LessOrEqual(t, a.MedianFinalEquity, a.P95FinalEquity)
	assert.GreaterOrEqual(t, a.ProbProfit, 0.0)
	assert.LessOrEqual(t, a.ProbProfit, 1.0)
}

func TestRun_CertainOutcomes(t *testing.T) {
	p := params()
	p.ShortFailureRate = 1
	p.TimeHorizonHours = 240
	s, err := Run(context.Background(), p, Options{Trials: 5, Workers: 2, Seed: 3})
	require.NoError(t, err)

	// ten buys, every one lost at the short stage
	assert.InDelta(t, 0.9, s.MeanFinalEquity, 1e-9)
	assert.InDelta(t, 0.9, s.P5FinalEquity, 1e-9)
	assert.Equal(t, 0.0, s.ProbProfit)
	assert.Equal(t, 0.0, s.MeanSuccesses)
}

func TestRun_InvalidInput(t *testing.T) {
	_, err := Run(context.Background(), params(), Options{Trials: 0})
	assert.True(t, errors.Is(err, simulator.ErrInvalidConfiguration))

	p := params()
	p.LongFailureRate = 2
	_, err = Run(context.Background(), p, Options{Trials: 3})
	assert.True(t, errors.Is(err, simulator.ErrInvalidConfiguration))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, params(), Options{Trials: 20, Workers: 2, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate_UnsortedTrials(t *testing.T) {
	p := params()
	summaries := []model.RunSummary{
		{FinalEquity: 4, FinalCash: 1, Success: 2},
		{FinalEquity: 0.5, FinalCash: 0.5},
		{FinalEquity: 3, FinalCash: 2, Success: 1},
		{FinalEquity: 0.5, FinalCash: 0.5},
	}
	s, err := aggregate(p, 9, summaries)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Trials)
	assert.Equal(t, uint64(9), s.Seed)
	assert.InDelta(t, 2.0, s.MeanFinalEquity, 1e-12)
	assert.InDelta(t, 1.0, s.MeanFinalCash, 1e-12)
	assert.InDelta(t, 0.75, s.MeanSuccesses, 1e-12)
	assert.InDelta(t, 0.5, s.ProbProfit, 1e-12)

	assert.GreaterOrEqual(t, s.P5FinalEquity, 0.5)
	assert.LessOrEqual(t, s.P5FinalEquity, s.MedianFinalEquity)
	assert.LessOrEqual(t, s.MedianFinalEquity, s.P95FinalEquity)
	assert.LessOrEqual(t, s.P95FinalEquity, 4.0)
	assert.Equal(t, 4.0, summaries[0].FinalEquity, "input order is kept")
}

func TestAggregate_Empty(t *testing.T) {
	_, err := aggregate(params(), 1, nil)
	assert.Error(t, err)
}
