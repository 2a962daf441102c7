package automatic

import (
	"fmt"
	"strings"

	"github.com/domino14/fourplay/stats"
)

// Confidence is the confidence level, in percent, of the reported score
// interval.
const Confidence = 95.0

// Summary accumulates match results from the point of view of p1.
type Summary struct {
	P1Name string
	P2Name string

	Games     int
	P1Wins    int
	P2Wins    int
	Draws     int
	P1First   int
	FirstWins float64

	plies stats.Statistic
	// p1 score per game: 1 for a win, 0.5 for a draw, 0 for a loss
	score stats.Statistic
}

func NewSummary(p1, p2 string) *Summary {
	return &Summary{P1Name: p1, P2Name: p2}
}

func (s *Summary) Add(r GameResult) {
	s.Games++
	s.plies.Push(float64(r.Plies))
	if r.First == P1 {
		s.P1First++
	}
	switch r.Winner {
	case P1:
		s.P1Wins++
		s.score.Push(1)
	case P2:
		s.P2Wins++
		s.score.Push(0)
	default:
		s.Draws++
		s.score.Push(0.5)
	}
	switch r.Winner {
	case r.First:
		s.FirstWins++
	case Draw:
		s.FirstWins += 0.5
	}
}

func (s *Summary) MeanPlies() float64 {
	return s.plies.Mean()
}

// P1Score is p1's mean score per game with its confidence interval.
func (s *Summary) P1Score() (mean, lo, hi float64) {
	lo, hi = s.score.ConfidenceInterval(Confidence)
	return s.score.Mean(), lo, hi
}

func pct(n float64, d int) float64 {
	if d == 0 {
		return 0
	}
	return 100.0 * n / float64(d)
}

func (s *Summary) String() string {
	var sb strings.Builder
	mean, lo, hi := s.P1Score()
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games)
	fmt.Fprintf(&sb, "%s (p1) wins: %d (%.3f%%)\n", s.P1Name, s.P1Wins, pct(float64(s.P1Wins), s.Games))
	fmt.Fprintf(&sb, "%s (p2) wins: %d (%.3f%%)\n", s.P2Name, s.P2Wins, pct(float64(s.P2Wins), s.Games))
	fmt.Fprintf(&sb, "Draws: %d (%.3f%%)\n", s.Draws, pct(float64(s.Draws), s.Games))
	fmt.Fprintf(&sb, "p1 went first: %d (%.3f%%)\n", s.P1First, pct(float64(s.P1First), s.Games))
	fmt.Fprintf(&sb, "Player who went first wins: %.1f (%.3f%%)\n", s.FirstWins, pct(s.FirstWins, s.Games))
	fmt.Fprintf(&sb, "p1 score: %.3f (%.0f%% CI %.3f to %.3f)\n", mean, Confidence, lo, hi)
	fmt.Fprintf(&sb, "Mean game length: %.2f plies  Stdev: %.2f\n", s.plies.Mean(), s.plies.Stdev())
	return sb.String()
}
