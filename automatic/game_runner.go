// Package automatic plays computer-vs-computer games between two engine
// configurations and collects the results.
package automatic

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/engine"
	"github.com/domino14/fourplay/game"
)

const (
	P1   = "p1"
	P2   = "p2"
	Draw = "draw"
)

// GameResult is the outcome of one automatic game.
type GameResult struct {
	GameID int
	// First is P1 or P2.
	First string
	// Winner is P1, P2 or Draw.
	Winner string
	Plies  int
	Board  board.Board
}

// GameRunner plays games between two engines. It owns the engines, so a
// GameRunner must only be used by one goroutine.
type GameRunner struct {
	game          *game.Game
	rules         game.Rules
	engines       [2]*engine.Engine
	names         [2]string
	randomOpening int
	logchan       chan []string
}

// NewGameRunner builds fresh engines for both seats.
func NewGameRunner(logchan chan []string, p1, p2 engine.Options, rules game.Rules,
	randomOpening int) (*GameRunner, error) {

	r := &GameRunner{logchan: logchan, rules: rules, randomOpening: randomOpening}
	for idx, opts := range []engine.Options{p1, p2} {
		e, err := engine.New(opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", seatName(idx), err)
		}
		r.engines[idx] = e
		r.names[idx] = e.Options().Algorithm
	}
	return r, nil
}

func seatName(idx int) string {
	if idx == 0 {
		return P1
	}
	return P2
}

// Game returns the game most recently played.
func (r *GameRunner) Game() *game.Game {
	return r.game
}

// seat maps a piece to an engine index. The side moving first always plays
// board.PlayerPiece.
func seat(piece board.Piece, p1First bool) int {
	if (piece == board.PlayerPiece) == p1First {
		return 0
	}
	return 1
}

// PlayGame plays one game to the end. The first randomOpening plies are
// random legal moves.
func (r *GameRunner) PlayGame(gameID int, p1First bool) (GameResult, error) {
	r.game = game.New(r.rules, board.PlayerPiece)
	for _, e := range r.engines {
		e.ResetCache()
	}

	for !r.game.Over() {
		b := r.game.Board()
		var col int
		if r.game.Turn() < r.randomOpening {
			valid := b.ValidLocations()
			col = valid[frand.Intn(len(valid))]
		} else {
			piece := r.game.OnTurn()
			d := r.engines[seat(piece, p1First)].BestMove(b, piece)
			col = d.Column
		}
		if err := r.game.Play(col); err != nil {
			return GameResult{}, err
		}
	}

	res := GameResult{
		GameID: gameID,
		First:  seatName(seat(board.PlayerPiece, p1First)),
		Winner: Draw,
		Plies:  r.game.Turn(),
		Board:  r.game.Board(),
	}
	if w := r.game.Winner(); w != board.Empty {
		res.Winner = seatName(seat(w, p1First))
	}
	log.Debug().Int("game", gameID).
		Str("first", res.First).
		Str("winner", res.Winner).
		Int("plies", res.Plies).
		Msg("game-finished")

	if r.logchan != nil {
		r.logchan <- r.logRecord(res)
	}
	return res, nil
}

// logRecord is the log row for a finished game, in LogFields order.
func (r *GameRunner) logRecord(res GameResult) []string {
	return []string{
		strconv.Itoa(res.GameID), res.First, r.names[0], r.names[1], res.Winner,
		strconv.Itoa(res.Plies), res.Board.String(),
	}
}
