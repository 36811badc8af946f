// Package batch runs many independent simulations of the same parameters and
// aggregates their outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alitto/pond"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"MemeSim/internal/calculator"
	"MemeSim/internal/model"
	"MemeSim/internal/sampler"
	"MemeSim/internal/simulator"
)

// Options controls a batch.
type Options struct {
	Trials  int
	Workers int
	// Seed of the first trial; trial i uses Seed+i. Zero picks a seed from
	// the clock, reported back in the summary.
	Seed uint64
}

// Run executes opts.Trials simulations on a worker pool. Aggregation happens
// in trial order, so a given seed always yields the same summary.
func Run(ctx context.Context, p model.Params, opts Options) (*model.BatchSummary, error) {
	if opts.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", simulator.ErrInvalidConfiguration, opts.Trials)
	}
	if err := simulator.Validate(p); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	summaries := make([]model.RunSummary, opts.Trials)

	pool := pond.New(workers, opts.Trials, pond.MinWorkers(1))
	defer pool.StopAndWait()
	group, gctx := pool.GroupContext(ctx)

	started := time.Now()
	for i := 0; i < opts.Trials; i++ {
		i := i
		group.Submit(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := simulator.Run(p, sampler.NewPCG(seed+uint64(i)))
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			summaries[i] = calculator.Summarize(p, res)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	// the group may finish cleanly after the parent context is cancelled
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zap.S().Debugf("batch of %d trials finished in %v (seed=%d, workers=%d)",
		opts.Trials, time.Since(started), seed, workers)

	return aggregate(p, seed, summaries)
}

func aggregate(p model.Params, seed uint64, summaries []model.RunSummary) (*model.BatchSummary, error) {
	if len(summaries) == 0 {
		return nil, errors.New("no trials to aggregate")
	}
	equity := make([]float64, len(summaries))
	cash := make([]float64, len(summaries))
	successes := make([]float64, len(summaries))
	profitable := 0
	for i, s := range summaries {
		equity[i] = s.FinalEquity
		cash[i] = s.FinalCash
		successes[i] = float64(s.Success)
		if s.FinalEquity > p.InitialCapital {
			profitable++
		}
	}

	// stat.Quantile needs sorted input; equity keeps trial order for the means
	sorted := make([]float64, len(equity))
	copy(sorted, equity)
	sort.Float64s(sorted)

	return &model.BatchSummary{
		Trials:                len(summaries),
		Seed:                  seed,
		MeanFinalEquity:       stat.Mean(equity, nil),
		MedianFinalEquity:     stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		P5FinalEquity:         stat.Quantile(0.05, stat.LinInterp, sorted, nil),
		P95FinalEquity:        stat.Quantile(0.95, stat.LinInterp, sorted, nil),
		MeanFinalCash:         stat.Mean(cash, nil),
		ProbProfit:            float64(profitable) / float64(len(summaries)),
		MeanSuccesses:         stat.Mean(successes, nil),
		ExpectedValuePerAsset: simulator.ExpectedValuePerAsset(p),
	}, nil
}
