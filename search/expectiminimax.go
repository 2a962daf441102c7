package search

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/cache"
)

// Drop outcome weights. A piece aimed at a column lands there with
// probability CenterWeight; otherwise it slips into a valid neighbour.
const (
	CenterWeight      = 0.6
	TwoNeighborWeight = 0.2
	OneNeighborWeight = 0.4
)

type branch struct {
	col    int
	weight float64
}

// chanceBranches returns the weighted landing columns for a piece aimed at
// col. Neighbours only count if they are valid columns. A column with no
// valid neighbour keeps its single 0.6 branch.
func chanceBranches(valid []int, col int) []branch {
	branches := []branch{{col: col, weight: CenterWeight}}
	neighbors := lo.Filter([]int{col - 1, col + 1}, func(c int, _ int) bool {
		return lo.Contains(valid, c)
	})
	w := OneNeighborWeight
	if len(neighbors) == 2 {
		w = TwoNeighborWeight
	}
	for _, n := range neighbors {
		branches = append(branches, branch{col: n, weight: w})
	}
	return branches
}

// Expectiminimax searches a decision layer and a chance layer at every ply.
// The mover first drops into the chosen column; each chance branch then
// drops one more mover piece on that board, in the chosen column or a
// neighbour. A branch whose column has filled up is skipped. The value of a
// column is the weighted sum of the branch values. Decision layers prune
// with alpha-beta.
//
// With a positive prune threshold, a landing board whose one-ply evaluation
// is already outside the window by more than the threshold is skipped
// before recursing. This trades accuracy for speed; 0 disables it.
type Expectiminimax struct {
	base
	pruneThreshold float64
}

// NewExpectiminimax creates an expectiminimax searcher scoring leaves with
// the named heuristic.
func NewExpectiminimax(heuristic string) (*Expectiminimax, error) {
	b, err := newBase(ExpectiminimaxName, heuristic)
	if err != nil {
		return nil, err
	}
	return &Expectiminimax{base: b}, nil
}

func (s *Expectiminimax) SetPruneThreshold(t float64) {
	s.pruneThreshold = t
}

func (s *Expectiminimax) PruneThreshold() float64 {
	return s.pruneThreshold
}

func (s *Expectiminimax) Search(req Request) Result {
	s.begin(req)
	root := s.enter(DecisionNode, minmaxLabel(req.Maximizing))
	col, val := s.expectiminimax(req.Board, req.Depth, req.Alpha, req.Beta, req.Maximizing, root)
	return s.finish(col, val)
}

func (s *Expectiminimax) prunable(landed board.Board, alpha, beta float64, maximizing bool) bool {
	if s.pruneThreshold <= 0 {
		return false
	}
	approx := s.leafValue(landed)
	if maximizing {
		return approx < alpha-s.pruneThreshold
	}
	return approx > beta+s.pruneThreshold
}

func (s *Expectiminimax) expectiminimax(b board.Board, depth int, alpha, beta float64,
	maximizing bool, nodeID int) (int, float64) {

	s.nodes++
	key := s.key(b, depth, maximizing)
	if e, ok := s.lookup(key); ok {
		s.hits++
		return e.Column, e.Value
	}

	valid := b.ValidLocations()
	if depth <= 0 || len(valid) == 0 {
		score := s.leafValue(b)
		s.label(nodeID, leafLabel(score))
		s.store(key, cache.Entry{Column: NoColumn, Value: score})
		return NoColumn, score
	}

	mover := s.mover(maximizing)
	bestCol := placeholder(valid)
	bestVal := worst(maximizing)

	for _, col := range valid {
		row, _ := b.NextOpenRow(col)
		aimed := b.DropPiece(row, col, mover)

		decID := s.enter(DecisionNode, fmt.Sprintf("col=%d", col))
		s.edge(nodeID, decID)

		total := 0.0
		for _, br := range chanceBranches(valid, col) {
			r, ok := aimed.NextOpenRow(br.col)
			if !ok {
				continue
			}
			landed := aimed.DropPiece(r, br.col, mover)
			if s.prunable(landed, alpha, beta, maximizing) {
				continue
			}

			chID := s.enter(ChanceNode, fmt.Sprintf("P=%.2f", br.weight))
			s.edge(decID, chID)
			childID := s.enter(DecisionNode, minmaxLabel(!maximizing))
			s.edge(chID, childID)

			_, v := s.expectiminimax(landed, depth-1, alpha, beta, !maximizing, childID)
			total += br.weight * v
			s.label(chID, fmt.Sprintf("%.2f\n%.2f", br.weight, v))
		}
		s.label(decID, fmt.Sprintf("col=%d\n%.2f", col, total))

		if maximizing {
			if total > bestVal {
				bestVal, bestCol = total, col
			}
			alpha = math.Max(alpha, bestVal)
		} else {
			if total < bestVal {
				bestVal, bestCol = total, col
			}
			beta = math.Min(beta, bestVal)
		}
		if alpha >= beta {
			break
		}
	}

	s.store(key, cache.Entry{Column: bestCol, Value: bestVal})
	return bestCol, bestVal
}
