package search

import (
	"math"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/cache"
)

// thanks Wikipedia:
/*
function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
*/

// AlphaBeta is minimax with alpha-beta pruning and one-ply move ordering.
//
// By default a cached value is trusted whatever window it was computed
// under, so a value stored after a cutoff can be served to a later search
// with a wider window. SetBoundedEntries(true) records whether each value is
// exact, a lower bound or an upper bound, and only serves hits whose bound
// settles the requested window.
type AlphaBeta struct {
	base
	boundedEntries bool
}

// NewAlphaBeta creates an alpha-beta searcher scoring leaves with the named
// heuristic.
func NewAlphaBeta(heuristic string) (*AlphaBeta, error) {
	b, err := newBase(AlphaBetaName, heuristic)
	if err != nil {
		return nil, err
	}
	return &AlphaBeta{base: b}, nil
}

func (s *AlphaBeta) SetBoundedEntries(b bool) {
	s.boundedEntries = b
}

func (s *AlphaBeta) Search(req Request) Result {
	s.begin(req)
	root := s.enter(DecisionNode, "")
	col, val := s.alphabeta(req.Board, req.Depth, req.Alpha, req.Beta, req.Maximizing, root)
	return s.finish(col, val)
}

func (s *AlphaBeta) usable(e cache.Entry, alpha, beta float64) bool {
	if !s.boundedEntries {
		return true
	}
	switch e.Flag {
	case cache.Lower:
		return e.Value >= beta
	case cache.Upper:
		return e.Value <= alpha
	}
	return true
}

func (s *AlphaBeta) flagFor(v, alpha, beta float64) cache.Bound {
	switch {
	case v <= alpha:
		return cache.Upper
	case v >= beta:
		return cache.Lower
	}
	return cache.Exact
}

func (s *AlphaBeta) alphabeta(b board.Board, depth int, alpha, beta float64,
	maximizing bool, nodeID int) (int, float64) {

	s.nodes++
	key := s.key(b, depth, maximizing)
	if e, ok := s.lookup(key); ok && s.usable(e, alpha, beta) {
		s.hits++
		return e.Column, e.Value
	}

	valid := b.ValidLocations()
	if depth <= 0 || len(valid) == 0 {
		score := s.leafValue(b)
		s.label(nodeID, leafLabel(score))
		s.store(key, cache.Entry{Column: NoColumn, Value: score, Flag: cache.Exact})
		return NoColumn, score
	}

	origAlpha, origBeta := alpha, beta
	children := s.orderedChildren(b, valid, s.mover(maximizing), maximizing)
	bestCol := placeholder(valid)
	bestVal := worst(maximizing)

	for _, c := range children {
		childID := s.enter(DecisionNode, "")
		_, v := s.alphabeta(c.board, depth-1, alpha, beta, !maximizing, childID)

		if maximizing {
			if v > bestVal {
				bestVal, bestCol = v, c.col
			}
			alpha = math.Max(alpha, bestVal)
		} else {
			if v < bestVal {
				bestVal, bestCol = v, c.col
			}
			beta = math.Min(beta, bestVal)
		}
		s.label(nodeID, runningLabel(bestVal))
		s.edge(nodeID, childID)

		if beta <= alpha {
			break
		}
	}

	s.store(key, cache.Entry{
		Column: bestCol,
		Value:  bestVal,
		Flag:   s.flagFor(bestVal, origAlpha, origBeta),
	})
	return bestCol, bestVal
}
