package calculator

// MaxDrawdown returns the largest peak-to-trough decline as a fraction of
// the peak (0.0 ~ 1.0). Leading non-positive values are skipped.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	start := -1
	for i, v := range values {
		if v > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return 0.0
	}

	maxDrawdown := 0.0
	peak := values[start]
	for _, v := range values[start:] {
		if v > peak {
			peak = v
		}
		if v >= 0 {
			if dd := (peak - v) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown
}
