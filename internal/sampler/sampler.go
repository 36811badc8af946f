// Package sampler provides the uniform [0,1) draws that drive asset outcomes.
package sampler

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrExhausted is returned by a Sequence once all of its draws are consumed.
var ErrExhausted = errors.New("sampler exhausted")

// Sampler yields independent uniform draws on [0,1).
type Sampler interface {
	Float64() (float64, error)
}

// PCG is a seeded pseudo-random stream. Two PCGs built from the same seed
// produce the same draws.
type PCG struct {
	rng *rand.Rand
}

// NewPCG creates a PCG stream for seed.
func NewPCG(seed uint64) *PCG {
	return &PCG{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *PCG) Float64() (float64, error) {
	return p.rng.Float64(), nil
}

// Sequence replays a fixed list of draws. It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a Sequence over values.
func NewSequence(values ...float64) *Sequence {
	v := make([]float64, len(values))
	copy(v, values)
	return &Sequence{values: v}
}

func (s *Sequence) Float64() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.values) {
		return 0, ErrExhausted
	}
	v := s.values[s.next]
	s.next++
	return v, nil
}

// Drawn returns how many values have been consumed.
func (s *Sequence) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Func adapts an infallible function into a Sampler.
type Func func() float64

func (f Func) Float64() (float64, error) { return f(), nil }

// Constant returns a Sampler that always draws v.
func Constant(v float64) Sampler {
	return Func(func() float64 { return v })
}
