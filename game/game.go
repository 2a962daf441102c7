// Package game holds the state of a single Connect-Four game: whose turn it
// is, the moves played so far and whether (and how) the game has ended. A
// Game doesn't care who is playing it; the shell and the automatic player
// drive it with columns chosen by people or engines.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fourplay/board"
)

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
	ErrGameOver         = errors.New("game is over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrNothingToUndo    = errors.New("no moves to undo")
	ErrBadPosition      = errors.New("position cannot arise in a game")
)

// Move is one piece placement.
type Move struct {
	Piece board.Piece
	Row   int
	Col   int
}

type Game struct {
	uid   string
	rules Rules
	first board.Piece
	// start is the position the game began from; usually empty.
	start board.Board
	board board.Board

	onturn  board.Piece
	history []Move

	over   bool
	winner board.Piece
	tally  board.Tally
}

// New starts a game on an empty board. first is the piece that moves first.
func New(rules Rules, first board.Piece) *Game {
	if first != board.AIPiece {
		first = board.PlayerPiece
	}
	return &Game{
		uid:    uuid.NewString(),
		rules:  rules,
		first:  first,
		start:  board.New(),
		board:  board.New(),
		onturn: first,
	}
}

// NewFromBoard starts a game from a given position. The side on turn is
// derived from the piece counts; the first player may be at most one piece
// ahead.
func NewFromBoard(rules Rules, first board.Piece, b board.Board) (*Game, error) {
	g := New(rules, first)
	ahead := b.Count(g.first) - b.Count(g.first.Opponent())
	if ahead != 0 && ahead != 1 {
		return nil, fmt.Errorf("%w: %v has %d more pieces", ErrBadPosition, g.first, ahead)
	}
	if !settled(b) {
		return nil, fmt.Errorf("%w: floating piece", ErrBadPosition)
	}
	g.start = b
	g.board = b
	if ahead == 1 {
		g.onturn = g.first.Opponent()
	}
	g.checkEnd(g.onturn.Opponent())
	if g.rules == ConnectRules && !g.over && b.WinningMove(g.onturn) {
		// the side on turn already has four; count it
		g.checkEnd(g.onturn)
	}
	return g, nil
}

// settled reports whether every piece in b rests on the floor or on
// another piece.
func settled(b board.Board) bool {
	for col := 0; col < board.NumCols; col++ {
		seenEmpty := false
		for row := 0; row < board.NumRows; row++ {
			if b.At(row, col) == board.Empty {
				seenEmpty = true
			} else if seenEmpty {
				return false
			}
		}
	}
	return true
}

func (g *Game) UID() string {
	return g.uid
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) StartBoard() board.Board {
	return g.start
}

func (g *Game) First() board.Piece {
	return g.first
}

func (g *Game) OnTurn() board.Piece {
	return g.onturn
}

func (g *Game) Over() bool {
	return g.over
}

// Winner is board.Empty while the game is running or if it was drawn.
func (g *Game) Winner() board.Piece {
	return g.winner
}

// Tally is the alignment count computed when a full-board game ended.
func (g *Game) Tally() board.Tally {
	return g.tally
}

// Turn is the number of moves played in this game.
func (g *Game) Turn() int {
	return len(g.history)
}

func (g *Game) History() []Move {
	h := make([]Move, len(g.history))
	copy(h, g.history)
	return h
}

// LastMove returns the most recent move, if any.
func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1], true
}

// Play drops the piece on turn into col (0-based).
func (g *Game) Play(col int) error {
	if g.over {
		return ErrGameOver
	}
	if col < 0 || col >= board.NumCols {
		return fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}
	row, ok := g.board.NextOpenRow(col)
	if !ok {
		return fmt.Errorf("%w: %d", ErrColumnFull, col)
	}
	piece := g.onturn
	g.board = g.board.DropPiece(row, col, piece)
	g.history = append(g.history, Move{Piece: piece, Row: row, Col: col})
	g.onturn = piece.Opponent()
	g.checkEnd(piece)
	return nil
}

// PlayAs is Play, but checks that piece is the one on turn.
func (g *Game) PlayAs(piece board.Piece, col int) error {
	if piece != g.onturn {
		return fmt.Errorf("%w: %v to move", ErrNotYourTurn, g.onturn)
	}
	return g.Play(col)
}

// Undo takes back the last move.
func (g *Game) Undo() error {
	m, ok := g.LastMove()
	if !ok {
		return ErrNothingToUndo
	}
	g.history = g.history[:len(g.history)-1]
	g.board = g.board.DropPiece(m.Row, m.Col, board.Empty)
	g.onturn = m.Piece
	g.over = false
	g.winner = board.Empty
	g.tally = board.Tally{}
	return nil
}

// checkEnd updates the end-of-game state after mover played.
func (g *Game) checkEnd(mover board.Piece) {
	switch g.rules {
	case FullBoardRules:
		if !g.board.IsFull() {
			return
		}
		g.over = true
		g.tally = g.board.CheckWinner()
		switch {
		case g.tally.Player > g.tally.AI:
			g.winner = board.PlayerPiece
		case g.tally.AI > g.tally.Player:
			g.winner = board.AIPiece
		}
	default:
		if g.board.WinningMove(mover) {
			g.over = true
			g.winner = mover
		} else if g.board.IsFull() {
			g.over = true
		}
	}
	if g.over {
		log.Debug().Str("uid", g.uid).
			Str("rules", string(g.rules)).
			Str("winner", g.winner.String()).
			Int("moves", len(g.history)).
			Msg("game-over")
	}
}
