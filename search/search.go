// Package search implements depth-limited game-tree search for
// Connect-Four: minimax with alpha-beta pruning, unpruned minimax, and
// expectiminimax with a chance layer that models imprecise drops.
//
// Every searcher owns its transposition table. Searchers are not safe for
// concurrent use; run one search at a time per searcher.
package search

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/cache"
	"github.com/domino14/fourplay/heuristics"
)

// NoColumn is returned when a node has no move to make (a leaf).
const NoColumn = -1

// NodeKind distinguishes decision nodes from chance nodes in a trace.
type NodeKind uint8

const (
	DecisionNode NodeKind = iota
	ChanceNode
)

func (k NodeKind) String() string {
	if k == ChanceNode {
		return "chance"
	}
	return "decision"
}

// Observer receives the shape of the search tree while it is explored.
// Node ids must be unique over a whole search; OnNodeEnter allocates them.
// A search with a nil Observer runs on the fast path and uses the cache.
type Observer interface {
	OnNodeEnter(kind NodeKind, label string) int
	OnNodeUpdate(id int, label string)
	OnEdge(from, to int)
}

// Request describes one search invocation.
type Request struct {
	Board board.Board
	// Depth is the remaining ply budget; 0 evaluates the board directly.
	Depth      int
	Alpha      float64
	Beta       float64
	Maximizing bool
	// Piece is the side whose evaluation is being maximized.
	Piece    board.Piece
	Observer Observer
}

// NewRequest returns a request with the default window and perspective:
// (-inf, +inf), maximizing, for the AI piece.
func NewRequest(b board.Board, depth int) Request {
	return Request{
		Board:      b,
		Depth:      depth,
		Alpha:      math.Inf(-1),
		Beta:       math.Inf(1),
		Maximizing: true,
		Piece:      board.AIPiece,
	}
}

// Result is the outcome of a search.
type Result struct {
	// Column is the chosen column, or NoColumn if the root was a leaf.
	Column    int
	Score     float64
	Nodes     int
	CacheHits int
}

// Searcher is implemented by every search strategy.
type Searcher interface {
	Name() string
	Search(req Request) Result
	Cache() *cache.Table
	ResetCache()
}

const (
	AlphaBetaName      = "alphabeta"
	MinimaxName        = "minimax"
	ExpectiminimaxName = "expectiminimax"
)

// base carries the state shared by all strategies during one search.
type base struct {
	name          string
	heuristicName string
	eval          heuristics.Evaluator
	table         *cache.Table

	// per-search state
	piece  board.Piece
	obs    Observer
	nodes  int
	hits   int
	tstart time.Time
}

func newBase(name, heuristic string) (base, error) {
	ev, err := heuristics.Get(heuristic)
	if err != nil {
		return base{}, err
	}
	return base{
		name:          name,
		heuristicName: heuristic,
		eval:          ev,
		table:         cache.NewTable(name),
	}, nil
}

func (s *base) Name() string {
	return s.name
}

func (s *base) Cache() *cache.Table {
	return s.table
}

func (s *base) ResetCache() {
	s.table.Reset()
}

func (s *base) begin(req Request) {
	s.piece = req.Piece
	s.obs = req.Observer
	s.nodes = 0
	s.hits = 0
	s.tstart = time.Now()
	log.Debug().Str("searcher", s.name).
		Str("heuristic", s.heuristicName).
		Int("depth", req.Depth).
		Bool("maximizing", req.Maximizing).
		Str("piece", req.Piece.String()).
		Bool("instrumented", req.Observer != nil).
		Msg("search-config")
}

func (s *base) finish(col int, score float64) Result {
	res := Result{Column: col, Score: score, Nodes: s.nodes, CacheHits: s.hits}
	log.Debug().Str("searcher", s.name).
		Int("column", col).
		Float64("score", score).
		Int("nodes", s.nodes).
		Int("cache-hits", s.hits).
		Float64("time-elapsed-sec", time.Since(s.tstart).Seconds()).
		Msg("search-returning")
	s.obs = nil
	return res
}

func (s *base) key(b board.Board, depth int, maximizing bool) cache.Key {
	return cache.Key{
		Board:      b,
		Depth:      depth,
		Maximizing: maximizing,
		Piece:      s.piece,
		Strategy:   s.heuristicName,
	}
}

// lookup consults the table. Instrumented searches never read it.
func (s *base) lookup(k cache.Key) (cache.Entry, bool) {
	if s.obs != nil {
		return cache.Entry{}, false
	}
	return s.table.Lookup(k)
}

// store saves a node result. Instrumented searches never write it.
func (s *base) store(k cache.Key, e cache.Entry) {
	if s.obs != nil {
		return
	}
	s.table.Store(k, e)
}

func (s *base) leafValue(b board.Board) float64 {
	return float64(s.eval(b, s.piece))
}

func (s *base) mover(maximizing bool) board.Piece {
	if maximizing {
		return s.piece
	}
	return s.piece.Opponent()
}

func (s *base) enter(kind NodeKind, label string) int {
	if s.obs == nil {
		return -1
	}
	return s.obs.OnNodeEnter(kind, label)
}

func (s *base) label(id int, label string) {
	if s.obs == nil {
		return
	}
	s.obs.OnNodeUpdate(id, label)
}

func (s *base) edge(from, to int) {
	if s.obs == nil {
		return
	}
	s.obs.OnEdge(from, to)
}

type child struct {
	col   int
	board board.Board
	h     int
}

// orderedChildren plays mover into every valid column and sorts the results
// by their one-ply evaluation: best first for the side to move. The sort is
// stable so equal children stay in column order.
func (s *base) orderedChildren(b board.Board, valid []int, mover board.Piece, maximizing bool) []child {
	children := lo.Map(valid, func(col int, _ int) child {
		row, _ := b.NextOpenRow(col)
		nb := b.DropPiece(row, col, mover)
		return child{col: col, board: nb, h: s.eval(nb, s.piece)}
	})
	sort.SliceStable(children, func(i, j int) bool {
		if maximizing {
			return children[i].h > children[j].h
		}
		return children[i].h < children[j].h
	})
	return children
}

// placeholder picks the initial best column. It is always overwritten by
// the first evaluated child.
func placeholder(valid []int) int {
	return valid[frand.Intn(len(valid))]
}

func worst(maximizing bool) float64 {
	if maximizing {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

func leafLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func runningLabel(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func minmaxLabel(maximizing bool) string {
	if maximizing {
		return "MAX"
	}
	return "MIN"
}
