package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []float64
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]float64{1, 0, 0.5, 1, 1, 0, 1, 1}, 0.6875, 0.45806269},
		{[]float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]float64{1}, 1, 0},
		{[]float64{}, 0, 0},
		{[]float64{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(score)
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.scores))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963985))
	is.True(FuzzyEqual(ZVal(99), 2.575829304))
	is.True(FuzzyEqual(ZVal(0), 0))
}

func TestConfidenceInterval(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	lo, hi := s.ConfidenceInterval(95)
	is.Equal(lo, 0.0)
	is.Equal(hi, 0.0)

	for i := 0; i < 100; i++ {
		s.Push(float64(i % 2))
	}
	lo, hi = s.ConfidenceInterval(95)
	is.True(FuzzyEqual(s.Mean(), 0.5))
	is.True(FuzzyEqual((lo+hi)/2, 0.5))
	is.True(FuzzyEqual(hi-s.Mean(), ZVal(95)*s.StandardError()))
	is.True(lo > 0.39 && hi < 0.61)
}
