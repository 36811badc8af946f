package calculator

import (
	"errors"
	"math"
)

// SeriesRange returns the high and low of values, scanning only the trailing
// window entries when window > 0.
func SeriesRange(values []float64, window int) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	n := len(values)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if values[i] > high {
			high = values[i]
		}
		if values[i] < low {
			low = values[i]
		}
	}
	return high, low, nil
}

// Equity returns cash + AUM for every hour.
func Equity(cash, aum []float64) ([]float64, error) {
	if len(cash) != len(aum) {
		return nil, errors.New("cash and aum series differ in length")
	}
	out := make([]float64, len(cash))
	for i := range cash {
		out[i] = cash[i] + aum[i]
	}
	return out, nil
}

// Downsample keeps every stride-th point plus the final point, so step
// changes at the horizon are not lost.
func Downsample(values []float64, stride int) ([]float64, error) {
	idx, err := DownsampleIndex(len(values), stride)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out, nil
}

// DownsampleIndex returns the indices Downsample would keep for a series of
// length n.
func DownsampleIndex(n, stride int) ([]int, error) {
	if stride <= 0 {
		return nil, errors.New("stride must be positive")
	}
	if n == 0 {
		return nil, nil
	}
	idx := make([]int, 0, n/stride+2)
	for i := 0; i < n; i += stride {
		idx = append(idx, i)
	}
	if idx[len(idx)-1] != n-1 {
		idx = append(idx, n-1)
	}
	return idx, nil
}
