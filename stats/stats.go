// Package stats keeps running statistics over match results.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance, updated one sample at a time
// with Welford's algorithm.
type Statistic struct {
	n    int
	last float64
	mean float64
	// sum of squared distances from the mean
	m2 float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

// Variance is the sample variance; it is 0 with fewer than two samples.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Iterations() int {
	return s.n
}

// ConfidenceInterval returns the bounds of the two-tailed interval around
// the mean, for a confidence given in percent (e.g. 95).
func (s *Statistic) ConfidenceInterval(confidence float64) (float64, float64) {
	margin := ZVal(confidence) * s.StandardError()
	return s.mean - margin, s.mean + margin
}
