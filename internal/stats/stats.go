// Package stats provides the small summary statistics used in run reports.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SD returns the population standard deviation (divide by N).
func SD(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	m := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// Summary is a five-number summary of a distribution.
type Summary struct {
	N      int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Summarize computes the five-number summary using median-of-halves
// quartiles. Returns false for an empty slice.
func Summarize(xs []float64) (Summary, bool) {
	n := len(xs)
	if n == 0 {
		return Summary{}, false
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	lower := sorted[:n/2]
	upper := sorted[(n+1)/2:]
	s := Summary{
		N:      n,
		Min:    sorted[0],
		Median: median(sorted),
		Max:    sorted[n-1],
	}
	if len(lower) == 0 {
		// Single observation: all quartiles collapse onto it.
		s.Q1 = s.Median
		s.Q3 = s.Median
		return s, true
	}
	s.Q1 = median(lower)
	s.Q3 = median(upper)
	return s, true
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
