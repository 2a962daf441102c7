package game

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/fourplay/board"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func playAll(t *testing.T, g *Game, cols ...int) {
	t.Helper()
	for _, c := range cols {
		if err := g.Play(c); err != nil {
			t.Fatalf("playing %d: %v", c, err)
		}
	}
}

// drawnGame fills the board without a four-in-a-row for either side.
// Columns are filled in pairs, three pieces of a color at a time.
var drawnGame = []int{
	0, 1, 0, 1, 0, 1,
	1, 0, 1, 0, 1, 0,
	2, 3, 2, 3, 2, 3,
	3, 2, 3, 2, 3, 2,
	4, 5, 4, 5, 4, 5,
	5, 4, 5, 4, 5, 4,
	6, 6, 6, 6, 6, 6,
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := New(ConnectRules, board.PlayerPiece)
	is.Equal(g.OnTurn(), board.PlayerPiece)
	is.Equal(g.Turn(), 0)
	is.True(!g.Over())
	is.True(g.UID() != "")

	g = New(ConnectRules, board.AIPiece)
	is.Equal(g.OnTurn(), board.AIPiece)
	// anything else means the human starts
	is.Equal(New(ConnectRules, board.Empty).First(), board.PlayerPiece)
}

func TestPlayAlternatesAndValidates(t *testing.T) {
	is := is.New(t)
	g := New(ConnectRules, board.PlayerPiece)
	playAll(t, g, 3, 3)
	is.Equal(g.Board().At(0, 3), board.PlayerPiece)
	is.Equal(g.Board().At(1, 3), board.AIPiece)
	is.Equal(g.OnTurn(), board.PlayerPiece)

	is.True(errors.Is(g.Play(7), ErrColumnOutOfRange))
	is.True(errors.Is(g.Play(-1), ErrColumnOutOfRange))
	playAll(t, g, 3, 3, 3, 3)
	is.True(errors.Is(g.Play(3), ErrColumnFull))
	is.True(errors.Is(g.PlayAs(board.AIPiece, 0), ErrNotYourTurn))
	is.NoErr(g.PlayAs(board.PlayerPiece, 0))
	is.Equal(g.Turn(), 7)
}

func TestConnectRulesEndAtFirstWin(t *testing.T) {
	is := is.New(t)
	g := New(ConnectRules, board.PlayerPiece)
	playAll(t, g, 0, 6, 1, 6, 2, 6)
	is.True(!g.Over())
	playAll(t, g, 3)
	is.True(g.Over())
	is.Equal(g.Winner(), board.PlayerPiece)
	is.True(errors.Is(g.Play(4), ErrGameOver))
	assert.Contains(t, g.ToDisplayText(), "Game over: player wins")
}

func TestConnectRulesDraw(t *testing.T) {
	is := is.New(t)
	g := New(ConnectRules, board.PlayerPiece)
	playAll(t, g, drawnGame...)
	is.True(g.Board().IsFull())
	is.True(g.Over())
	is.Equal(g.Winner(), board.Empty)
	assert.Contains(t, g.ToDisplayText(), "draw")
}

func TestFullBoardRulesKeepPlaying(t *testing.T) {
	is := is.New(t)
	g := New(FullBoardRules, board.PlayerPiece)
	// player completes a row; the game goes on
	playAll(t, g, 0, 0, 1, 1, 2, 2, 3)
	is.True(!g.Over())

	for !g.Over() {
		valid := g.Board().ValidLocations()
		is.NoErr(g.Play(valid[0]))
	}
	is.True(g.Board().IsFull())
	tally := g.Board().CheckWinner()
	is.Equal(g.Tally(), tally)
	switch {
	case tally.Player > tally.AI:
		is.Equal(g.Winner(), board.PlayerPiece)
	case tally.AI > tally.Player:
		is.Equal(g.Winner(), board.AIPiece)
	default:
		is.Equal(g.Winner(), board.Empty)
	}
	assert.Contains(t, g.ToDisplayText(), "alignments: player")
}

func TestUndo(t *testing.T) {
	is := is.New(t)
	g := New(ConnectRules, board.PlayerPiece)
	is.True(errors.Is(g.Undo(), ErrNothingToUndo))

	playAll(t, g, 0, 6, 1, 6, 2, 6, 3)
	is.True(g.Over())
	is.NoErr(g.Undo())
	is.True(!g.Over())
	is.Equal(g.Winner(), board.Empty)
	is.Equal(g.OnTurn(), board.PlayerPiece)
	is.Equal(g.Board().At(0, 3), board.Empty)
	is.Equal(g.Turn(), 6)
	m, ok := g.LastMove()
	is.True(ok)
	is.Equal(m, Move{Piece: board.AIPiece, Row: 2, Col: 6})
}

func TestNewFromBoard(t *testing.T) {
	is := is.New(t)
	b := board.New()
	b = b.DropPiece(0, 3, board.PlayerPiece)
	g, err := NewFromBoard(ConnectRules, board.PlayerPiece, b)
	is.NoErr(err)
	is.Equal(g.OnTurn(), board.AIPiece)

	b = b.DropPiece(0, 4, board.AIPiece)
	g, err = NewFromBoard(ConnectRules, board.PlayerPiece, b)
	is.NoErr(err)
	is.Equal(g.OnTurn(), board.PlayerPiece)

	// too many AI pieces
	_, err = NewFromBoard(ConnectRules, board.PlayerPiece, b.DropPiece(0, 5, board.AIPiece))
	is.True(errors.Is(err, ErrBadPosition))

	// a piece in the air
	_, err = NewFromBoard(ConnectRules, board.PlayerPiece, board.New().DropPiece(2, 0, board.PlayerPiece))
	is.True(errors.Is(err, ErrBadPosition))
}

func TestParseRules(t *testing.T) {
	is := is.New(t)
	r, err := ParseRules("fullboard")
	is.NoErr(err)
	is.Equal(r, FullBoardRules)
	r, err = ParseRules("")
	is.NoErr(err)
	is.Equal(r, ConnectRules)
	_, err = ParseRules("gomoku")
	is.True(errors.Is(err, ErrUnknownRules))
}

func TestSaveLoad(t *testing.T) {
	is := is.New(t)
	g := New(FullBoardRules, board.AIPiece)
	playAll(t, g, 3, 2, 4, 4, 0)

	var buf bytes.Buffer
	is.NoErr(g.Save(&buf))
	is.True(strings.Contains(buf.String(), "rules: fullboard"))

	g2, err := Load(&buf)
	is.NoErr(err)
	is.Equal(g2.UID(), g.UID())
	is.Equal(g2.Board(), g.Board())
	is.Equal(g2.History(), g.History())
	is.Equal(g2.OnTurn(), g.OnTurn())
	is.Equal(g2.First(), board.AIPiece)
}

func TestLoadFromPosition(t *testing.T) {
	is := is.New(t)
	start := board.New().DropPiece(0, 3, board.PlayerPiece)
	g, err := NewFromBoard(ConnectRules, board.PlayerPiece, start)
	is.NoErr(err)
	playAll(t, g, 3, 4)

	rec := g.Record()
	is.Equal(rec.Start, start.String())
	is.Equal(rec.Moves, []int{3, 4})

	g2, err := FromRecord(rec)
	is.NoErr(err)
	is.Equal(g2.Board(), g.Board())
	is.Equal(g2.StartBoard(), start)
}

func TestLoadRejectsBadRecords(t *testing.T) {
	is := is.New(t)
	_, err := FromRecord(Record{Rules: ConnectRules, First: "player", Moves: []int{0, 9}})
	is.True(errors.Is(err, ErrColumnOutOfRange))

	_, err = FromRecord(Record{Rules: "chess", First: "player"})
	is.True(errors.Is(err, ErrUnknownRules))

	_, err = FromRecord(Record{Rules: ConnectRules, First: "nobody"})
	is.True(err != nil)

	rec := New(ConnectRules, board.PlayerPiece).Record()
	rec.Moves = []int{1}
	_, err = FromRecord(rec) // final board is still the empty one
	is.True(err != nil)
}
