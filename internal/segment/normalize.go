package segment

import "gonum.org/v1/gonum/floats"

// MinMax rescales values into [0, 1]. A constant column maps to all zeros.
func MinMax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}
