package heuristics

import "github.com/domino14/fourplay/board"

// Weights of the base positional score.
const (
	centerPieceValue = 3
	window4Value     = 50
	window3Value     = 8
	window2Value     = 4
	oppWindow3Value  = 20
	oppWindow2Value  = 3
)

type windowCounts struct {
	own, opp, empty int
	// emptyIdx is the board index of the last empty cell seen.
	emptyIdx int
}

func countWindow(b board.Board, w board.Window, piece, opp board.Piece) windowCounts {
	wc := windowCounts{emptyIdx: -1}
	for _, idx := range w {
		switch b[idx] {
		case piece:
			wc.own++
		case opp:
			wc.opp++
		case board.Empty:
			wc.empty++
			wc.emptyIdx = idx
		}
	}
	return wc
}

func evaluateWindow(wc windowCounts) int {
	score := 0
	switch {
	case wc.own == 4:
		score += window4Value
	case wc.own == 3 && wc.empty == 1:
		score += window3Value
	case wc.own == 2 && wc.empty == 2:
		score += window2Value
	}

	switch {
	case wc.opp == 3 && wc.empty == 1:
		score -= oppWindow3Value
	case wc.opp == 2 && wc.empty == 2:
		score -= oppWindow2Value
	}
	return score
}

func centerCount(b board.Board, piece board.Piece) int {
	n := 0
	for r := 0; r < board.NumRows; r++ {
		if b.At(r, board.CenterCol) == piece {
			n++
		}
	}
	return n
}

// ScorePosition is the base positional score: center-column occupancy plus
// a small per-window pattern score. It is registered as the "basic"
// strategy and is the first term of Combined.
func ScorePosition(b board.Board, piece board.Piece) int {
	opp := piece.Opponent()
	score := centerCount(b, piece) * centerPieceValue
	for _, w := range board.Windows() {
		score += evaluateWindow(countWindow(b, w, piece, opp))
	}
	return score
}
