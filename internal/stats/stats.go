// Package stats holds the descriptive statistics shown on the dashboard.
// Missing observations are carried as NaN and dropped before any aggregate.
package stats

import "math"

// ValidNumbers returns the finite values of xs in their original order.
func ValidNumbers(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// Mean is the arithmetic mean of the valid values, or 0 when there are none.
func Mean(xs []float64) float64 {
	valid := ValidNumbers(xs)
	if len(valid) == 0 {
		return 0
	}
	var sum float64
	for _, x := range valid {
		sum += x
	}
	return sum / float64(len(valid))
}

// Std is the sample standard deviation (n-1) of the valid values, or 0 when
// fewer than two remain.
func Std(xs []float64) float64 {
	valid := ValidNumbers(xs)
	if len(valid) < 2 {
		return 0
	}
	m := Mean(valid)
	var ss float64
	for _, x := range valid {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(valid)-1))
}

// Summary describes one numeric series.
type Summary struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Describe summarizes the valid values of xs. Min and Max are NaN when N is 0.
func Describe(xs []float64) Summary {
	valid := ValidNumbers(xs)
	s := Summary{N: len(valid), Mean: Mean(valid), Std: Std(valid), Min: math.NaN(), Max: math.NaN()}
	for i, x := range valid {
		if i == 0 || x < s.Min {
			s.Min = x
		}
		if i == 0 || x > s.Max {
			s.Max = x
		}
	}
	return s
}

// Column extracts one numeric field from each row.
func Column[T any](rows []T, field func(T) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = field(r)
	}
	return out
}
