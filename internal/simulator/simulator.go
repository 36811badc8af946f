// Package simulator runs the hourly two-stage survival model over a portfolio
// of meme coins bought once per simulated day.
package simulator

import (
	"errors"
	"fmt"
	"math"

	"MemeSim/internal/model"
	"MemeSim/internal/sampler"
)

const (
	// ShortStageHours is the asset age at which the first survival check fires.
	ShortStageHours = 6
	// LongStageHours is the asset age at which a short-stage survivor resolves.
	LongStageHours = 30 * 24
	// PurchaseIntervalHours is the buying cadence: hour 0 of every day.
	PurchaseIntervalHours = 24
	// ShortStageMultiplier is applied to the mark value of a short-stage survivor.
	ShortStageMultiplier = 10
)

// ErrInvalidConfiguration is wrapped by every parameter validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Simulator is the portfolio simulation engine. It holds no state between
// runs; every Run allocates its own series and asset list.
type Simulator struct {
	sampler sampler.Sampler
}

// New creates a Simulator drawing outcomes from s.
func New(s sampler.Sampler) *Simulator {
	return &Simulator{sampler: s}
}

// Run is shorthand for New(s).Run(p).
func Run(p model.Params, s sampler.Sampler) (*model.Result, error) {
	return New(s).Run(p)
}

// ExpectedValuePerAsset returns the blended heuristic payoff of one pending
// asset. The formula is kept as-is; it is not a conditional expectation.
func ExpectedValuePerAsset(p model.Params) float64 {
	evShort := p.CapitalPerAsset * ShortStageMultiplier * (1 - p.ShortFailureRate)
	evLong := evShort * p.SuccessMultiplier * (1 - p.LongFailureRate)
	return (evShort + evLong) * (1 - p.ShortFailureRate)
}

// Validate rejects parameters the loop cannot run with.
func Validate(p model.Params) error {
	if p.TimeHorizonHours <= 0 {
		return invalidf("time_horizon_hours must be positive, got %d", p.TimeHorizonHours)
	}
	amounts := []struct {
		name string
		v    float64
	}{
		{"capital_per_asset", p.CapitalPerAsset},
		{"initial_capital", p.InitialCapital},
		{"success_multiplier", p.SuccessMultiplier},
	}
	for _, a := range amounts {
		if math.IsNaN(a.v) || math.IsInf(a.v, 0) {
			return invalidf("%s is not a finite number", a.name)
		}
		if a.v < 0 {
			return invalidf("%s must not be negative, got %g", a.name, a.v)
		}
	}
	rates := []struct {
		name string
		v    float64
	}{
		{"short_failure_rate", p.ShortFailureRate},
		{"long_failure_rate", p.LongFailureRate},
	}
	for _, r := range rates {
		if math.IsNaN(r.v) || r.v < 0 || r.v > 1 {
			return invalidf("%s must be within [0,1], got %g", r.name, r.v)
		}
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// Run simulates p.TimeHorizonHours hourly ticks. A sampler error aborts the
// run and is returned wrapped with the hour and stage it occurred in.
func (s *Simulator) Run(p model.Params) (*model.Result, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	n := p.TimeHorizonHours
	cash := make([]float64, n)
	aum := make([]float64, n)
	ev := make([]float64, n)
	axis := make([]int, n)
	evPerAsset := ExpectedValuePerAsset(p)

	var assets []model.Asset
	var transitions []model.Transition

	for t := 0; t < n; t++ {
		axis[t] = t
		if t > 0 {
			cash[t] = cash[t-1]
		} else {
			cash[0] = p.InitialCapital
		}

		// Purchase: one per day, skipped for the day when cash is short.
		if t%PurchaseIntervalHours == 0 && cash[t] >= p.CapitalPerAsset {
			cash[t] -= p.CapitalPerAsset
			assets = append(assets, model.Asset{
				ID:           len(assets),
				PurchaseTime: t,
				Value:        p.CapitalPerAsset,
				Status:       model.StatusPending,
				ResolvedAt:   -1,
			})
		}

		for i := range assets {
			a := &assets[i]
			if a.Status.Terminal() {
				continue
			}
			age := t - a.PurchaseTime

			if a.Status == model.StatusPending && age >= ShortStageHours {
				u, err := s.sampler.Float64()
				if err != nil {
					return nil, fmt.Errorf("hour %d: short-stage draw for asset %d: %w", t, a.ID, err)
				}
				if u < p.ShortFailureRate {
					transitions = append(transitions, move(a, t, model.StatusFailed, 0))
				} else {
					a.Value *= ShortStageMultiplier
					transitions = append(transitions, move(a, t, model.StatusShortSuccess, 0))
				}
			}

			if a.Status == model.StatusShortSuccess && age >= LongStageHours {
				u, err := s.sampler.Float64()
				if err != nil {
					return nil, fmt.Errorf("hour %d: long-stage draw for asset %d: %w", t, a.ID, err)
				}
				if u < p.LongFailureRate {
					transitions = append(transitions, move(a, t, model.StatusFailed, 0))
				} else {
					payout := a.Value * p.SuccessMultiplier
					cash[t] += payout
					transitions = append(transitions, move(a, t, model.StatusSuccess, payout))
				}
			}
		}

		var live float64
		pending := 0
		for i := range assets {
			switch assets[i].Status {
			case model.StatusPending:
				pending++
				live += assets[i].Value
			case model.StatusShortSuccess:
				live += assets[i].Value
			}
		}
		aum[t] = live
		ev[t] = float64(pending) * evPerAsset
	}

	return &model.Result{
		CashOnHand:            cash,
		AUM:                   aum,
		TimeAxis:              axis,
		ExpectedValue:         ev,
		ExpectedValuePerAsset: evPerAsset,
		Assets:                assets,
		Transitions:           transitions,
	}, nil
}

func move(a *model.Asset, hour int, to model.Status, payout float64) model.Transition {
	tr := model.Transition{
		Hour:    hour,
		AssetID: a.ID,
		From:    a.Status,
		To:      to,
		Value:   a.Value,
		Payout:  payout,
	}
	a.Status = to
	if to.Terminal() {
		a.ResolvedAt = hour
	}
	return tr
}
