// Package engine is the entry point the rest of the program uses to ask for
// a move. It selects a search strategy by name, attaches a trace recorder
// when asked to, and enforces the column validity contract on the answer.
package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/heuristics"
	"github.com/domino14/fourplay/search"
	"github.com/domino14/fourplay/trace"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

const (
	AlphaBeta      = search.AlphaBetaName
	Minimax        = search.MinimaxName
	Expectiminimax = search.ExpectiminimaxName

	DefaultAlgorithm = AlphaBeta
	DefaultDepth     = 3
)

// Short names accepted wherever an algorithm name is.
var aliases = map[string]string{
	"noprune": Minimax,
	"ab":      AlphaBeta,
	"expecti": Expectiminimax,
}

// Algorithms lists the accepted algorithm names.
func Algorithms() []string {
	return []string{AlphaBeta, Minimax, Expectiminimax}
}

// AlgorithmFromMenu maps the numeric launcher selection to an algorithm.
// Anything unrecognized selects alpha-beta.
func AlgorithmFromMenu(n int) string {
	switch n {
	case 2:
		return Minimax
	case 3:
		return Expectiminimax
	}
	return AlphaBeta
}

// CanonicalAlgorithm resolves aliases and validates the name.
func CanonicalAlgorithm(name string) (string, error) {
	if a, ok := aliases[name]; ok {
		return a, nil
	}
	for _, a := range Algorithms() {
		if a == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

type Options struct {
	Algorithm string
	Heuristic string
	// Depth is the ply budget BestMove searches with.
	Depth int
	// PruneThreshold only applies to expectiminimax.
	PruneThreshold float64
	// BoundedTT only applies to alpha-beta.
	BoundedTT bool
	// Trace makes BestMove record the search tree.
	Trace bool
}

// DefaultOptions returns the options the shell starts with.
func DefaultOptions() Options {
	return Options{
		Algorithm: DefaultAlgorithm,
		Heuristic: heuristics.DefaultStrategy,
		Depth:     DefaultDepth,
	}
}

// Engine wraps one searcher and its cache. It is not safe for concurrent
// use; give every goroutine its own Engine.
type Engine struct {
	opts     Options
	searcher search.Searcher
}

func New(opts Options) (*Engine, error) {
	alg, err := CanonicalAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	opts.Algorithm = alg
	if opts.Heuristic == "" {
		opts.Heuristic = heuristics.DefaultStrategy
	}
	if opts.Depth < 0 {
		return nil, fmt.Errorf("depth must not be negative: %d", opts.Depth)
	}

	var s search.Searcher
	switch alg {
	case AlphaBeta:
		ab, err := search.NewAlphaBeta(opts.Heuristic)
		if err != nil {
			return nil, err
		}
		ab.SetBoundedEntries(opts.BoundedTT)
		s = ab
	case Minimax:
		s, err = search.NewMinimax(opts.Heuristic)
	case Expectiminimax:
		em, err := search.NewExpectiminimax(opts.Heuristic)
		if err != nil {
			return nil, err
		}
		em.SetPruneThreshold(opts.PruneThreshold)
		s = em
	}
	if err != nil {
		return nil, err
	}
	return &Engine{opts: opts, searcher: s}, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Searcher() search.Searcher {
	return e.searcher
}

// ResetCache forgets everything the searcher has memoized.
func (e *Engine) ResetCache() {
	e.searcher.ResetCache()
}

// Params are the per-call search parameters.
type Params struct {
	Depth      int
	Alpha      float64
	Beta       float64
	Maximizing bool
	Piece      board.Piece
	// Instrument records a trace. Instrumented searches skip the cache.
	Instrument bool
}

// DefaultParams searches for the AI with a full window.
func DefaultParams(depth int) Params {
	return Params{
		Depth:      depth,
		Alpha:      math.Inf(-1),
		Beta:       math.Inf(1),
		Maximizing: true,
		Piece:      board.AIPiece,
	}
}

type Decision struct {
	// Column is search.NoColumn when there is no move to make.
	Column    int
	Score     float64
	Trace     *trace.Graph
	Nodes     int
	CacheHits int
	Elapsed   time.Duration
}

// Search runs one search on b. The returned column is whatever the searcher
// chose; use BestMove to get a column that is safe to play.
func (e *Engine) Search(b board.Board, p Params) Decision {
	req := search.Request{
		Board:      b,
		Depth:      p.Depth,
		Alpha:      p.Alpha,
		Beta:       p.Beta,
		Maximizing: p.Maximizing,
		Piece:      p.Piece,
	}
	var g *trace.Graph
	if p.Instrument {
		g = trace.NewGraph(e.opts.Algorithm)
		req.Observer = g
	}
	ts := time.Now()
	res := e.searcher.Search(req)
	return Decision{
		Column:    res.Column,
		Score:     res.Score,
		Trace:     g,
		Nodes:     res.Nodes,
		CacheHits: res.CacheHits,
		Elapsed:   time.Since(ts),
	}
}

// BestMove searches for piece with the configured depth and returns a
// playable column. If the searcher's column cannot be played, the first
// valid column is used instead. On a full board the column is NoColumn and
// no search is run.
func (e *Engine) BestMove(b board.Board, piece board.Piece) Decision {
	valid := b.ValidLocations()
	if len(valid) == 0 {
		return Decision{Column: search.NoColumn, Score: 0}
	}
	p := DefaultParams(e.opts.Depth)
	p.Piece = piece
	p.Instrument = e.opts.Trace
	d := e.Search(b, p)
	if d.Column < 0 || !b.IsValidLocation(d.Column) {
		log.Warn().Int("column", d.Column).
			Int("fallback", valid[0]).
			Str("algorithm", e.opts.Algorithm).
			Msg("search-column-unplayable")
		d.Column = valid[0]
	}
	return d
}
