package search

import (
	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/cache"
)

// Minimax is plain depth-limited minimax: the same move ordering as
// AlphaBeta but every child of every node is searched. It is the baseline
// the pruned searcher is checked against.
type Minimax struct {
	base
}

// NewMinimax creates an unpruned searcher scoring leaves with the named
// heuristic.
func NewMinimax(heuristic string) (*Minimax, error) {
	b, err := newBase(MinimaxName, heuristic)
	if err != nil {
		return nil, err
	}
	return &Minimax{base: b}, nil
}

// Search ignores the request's alpha and beta.
func (s *Minimax) Search(req Request) Result {
	s.begin(req)
	root := s.enter(DecisionNode, "")
	col, val := s.minimax(req.Board, req.Depth, req.Maximizing, root)
	return s.finish(col, val)
}

func (s *Minimax) minimax(b board.Board, depth int, maximizing bool, nodeID int) (int, float64) {
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

	children := s.orderedChildren(b, valid, s.mover(maximizing), maximizing)
	bestCol := placeholder(valid)
	bestVal := worst(maximizing)

	for _, c := range children {
		childID := s.enter(DecisionNode, "")
		_, v := s.minimax(c.board, depth-1, !maximizing, childID)

		if maximizing {
			if v > bestVal {
				bestVal, bestCol = v, c.col
			}
		} else if v < bestVal {
			bestVal, bestCol = v, c.col
		}
		s.label(nodeID, runningLabel(bestVal))
		s.edge(nodeID, childID)
	}

	s.store(key, cache.Entry{Column: bestCol, Value: bestVal})
	return bestCol, bestVal
}
