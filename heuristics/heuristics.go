// Package heuristics scores Connect-Four positions from one side's point of
// view. Strategies are looked up by name; an unknown name is an error, never
// a silent fallback.
package heuristics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/domino14/fourplay/board"
)

var ErrUnknownStrategy = errors.New("unknown heuristic strategy")

// Evaluator scores b for piece. Higher is better for piece.
type Evaluator func(b board.Board, piece board.Piece) int

const (
	CombinedStrategy = "combined"
	BasicStrategy    = "basic"

	DefaultStrategy = CombinedStrategy
)

var registry = map[string]Evaluator{
	CombinedStrategy: Combined,
	BasicStrategy:    ScorePosition,
}

// Get returns the evaluator registered under name.
func Get(name string) (Evaluator, error) {
	ev, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return ev, nil
}

// Evaluate scores b for piece with the named strategy.
func Evaluate(b board.Board, piece board.Piece, strategy string) (int, error) {
	ev, err := Get(strategy)
	if err != nil {
		return 0, err
	}
	return ev(b, piece), nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
