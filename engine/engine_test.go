package engine

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/cache"
	"github.com/domino14/fourplay/heuristics"
	"github.com/domino14/fourplay/search"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func place(b board.Board, piece board.Piece, cols ...int) board.Board {
	for _, c := range cols {
		row, _ := b.NextOpenRow(c)
		b = b.DropPiece(row, c, piece)
	}
	return b
}

// stuck always answers with a column that cannot be played.
type stuck struct {
	col int
}

func (s stuck) Name() string        { return "stuck" }
func (s stuck) Cache() *cache.Table { return nil }
func (s stuck) ResetCache()         {}
func (s stuck) Search(search.Request) search.Result {
	return search.Result{Column: s.col, Score: 7}
}

func TestAlgorithmFromMenu(t *testing.T) {
	assert.Equal(t, AlphaBeta, AlgorithmFromMenu(1))
	assert.Equal(t, Minimax, AlgorithmFromMenu(2))
	assert.Equal(t, Expectiminimax, AlgorithmFromMenu(3))
	assert.Equal(t, AlphaBeta, AlgorithmFromMenu(0))
	assert.Equal(t, AlphaBeta, AlgorithmFromMenu(9))
}

func TestNewValidatesNames(t *testing.T) {
	is := is.New(t)
	_, err := New(Options{Algorithm: "mcts"})
	is.True(errors.Is(err, ErrUnknownAlgorithm))

	_, err = New(Options{Algorithm: AlphaBeta, Heuristic: "bogus"})
	is.True(errors.Is(err, heuristics.ErrUnknownStrategy))

	_, err = New(Options{Algorithm: Expectiminimax, Heuristic: "bogus"})
	is.True(errors.Is(err, heuristics.ErrUnknownStrategy))

	e, err := New(Options{Algorithm: "noprune"})
	is.NoErr(err)
	is.Equal(e.Options().Algorithm, Minimax)
	is.Equal(e.Options().Heuristic, heuristics.DefaultStrategy)
	is.Equal(e.Searcher().Name(), search.MinimaxName)
}

func TestOptionsReachSearchers(t *testing.T) {
	is := is.New(t)
	e, err := New(Options{Algorithm: Expectiminimax, PruneThreshold: 25})
	is.NoErr(err)
	em, ok := e.Searcher().(*search.Expectiminimax)
	is.True(ok)
	is.Equal(em.PruneThreshold(), 25.0)
}

func TestDefaultOptions(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	is.Equal(opts.Algorithm, AlphaBeta)
	is.Equal(opts.Depth, 3)
	e, err := New(opts)
	is.NoErr(err)
	is.Equal(e.Options().Depth, DefaultDepth)
}

func TestSearchInstrumented(t *testing.T) {
	is := is.New(t)
	e, err := New(DefaultOptions())
	is.NoErr(err)

	p := DefaultParams(2)
	d := e.Search(board.New(), p)
	is.True(d.Trace == nil)
	is.True(d.Nodes > 0)

	p.Instrument = true
	traced := e.Search(board.New(), p)
	is.True(traced.Trace != nil)
	is.Equal(traced.Trace.Len(), traced.Nodes)
	is.Equal(traced.CacheHits, 0)
	is.Equal(traced.Score, d.Score)
}

func TestBestMoveBlocks(t *testing.T) {
	is := is.New(t)
	b := place(board.New(), board.PlayerPiece, 0, 1, 2)
	for _, alg := range []string{AlphaBeta, Minimax} {
		e, err := New(Options{Algorithm: alg, Depth: 2})
		is.NoErr(err)
		d := e.BestMove(b, board.AIPiece)
		is.Equal(d.Column, 3)
	}
}

func TestBestMoveForPlayer(t *testing.T) {
	is := is.New(t)
	// the same threat from the other side: the player must block
	b := place(board.New(), board.AIPiece, 0, 1, 2)
	e, err := New(Options{Algorithm: AlphaBeta, Depth: 2})
	is.NoErr(err)
	is.Equal(e.BestMove(b, board.PlayerPiece).Column, 3)
}

func TestBestMoveFallback(t *testing.T) {
	is := is.New(t)
	b := board.New()
	for r := 0; r < board.NumRows; r++ {
		b = b.DropPiece(r, 0, board.Piece(1+r%2))
	}
	e := &Engine{opts: DefaultOptions(), searcher: stuck{col: 0}}
	d := e.BestMove(b, board.AIPiece)
	is.Equal(d.Column, 1) // column 0 is full
	is.Equal(d.Score, 7.0)

	e.searcher = stuck{col: search.NoColumn}
	is.Equal(e.BestMove(b, board.AIPiece).Column, 1)

	// depth 0 never picks a column
	e, err := New(Options{Algorithm: AlphaBeta, Depth: 0})
	is.NoErr(err)
	is.Equal(e.BestMove(board.New(), board.AIPiece).Column, 0)
}

func TestBestMoveFullBoard(t *testing.T) {
	is := is.New(t)
	b := board.New()
	for i := range b {
		b[i] = board.PlayerPiece
	}
	e, err := New(DefaultOptions())
	is.NoErr(err)
	d := e.BestMove(b, board.AIPiece)
	is.Equal(d.Column, search.NoColumn)
	is.Equal(d.Nodes, 0)
}

func TestResetCache(t *testing.T) {
	is := is.New(t)
	e, err := New(DefaultOptions())
	is.NoErr(err)
	e.BestMove(board.New(), board.AIPiece)
	is.True(e.Searcher().Cache().Len() > 0)
	e.ResetCache()
	is.Equal(e.Searcher().Cache().Len(), 0)
}

func TestBestMoveTraced(t *testing.T) {
	is := is.New(t)
	e, err := New(Options{Algorithm: Expectiminimax, Depth: 1, Trace: true})
	is.NoErr(err)
	d := e.BestMove(board.New(), board.AIPiece)
	is.True(d.Trace != nil)
	is.Equal(d.Trace.Nodes[0].Label, "MAX")
	is.Equal(e.Searcher().Cache().Len(), 0)
}
