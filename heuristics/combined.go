package heuristics

import "github.com/domino14/fourplay/board"

// Weights of the combined heuristic. The block3 penalty must dominate every
// other term so that stopping an immediate loss always wins out.
const (
	CenterControl    = 6
	Reward4          = 10000
	Reward3          = 100
	Reward2          = 10
	Reward1          = 1
	Block3           = 10000000
	Block2           = 100
	TrapBonus        = 1500
	IsolationPenalty = 50
)

// Combined is the full heuristic: the base positional score, a second center
// control bonus on top of it, a heavier pattern table over every window, and
// a penalty for pieces with no orthogonal friendly neighbour.
func Combined(b board.Board, piece board.Piece) int {
	opp := piece.Opponent()
	score := ScorePosition(b, piece)

	// Counted again on purpose; the base score already includes it once.
	score += centerCount(b, piece) * CenterControl

	for _, w := range board.Windows() {
		wc := countWindow(b, w, piece, opp)

		switch {
		case wc.own == 4:
			score += Reward4
		case wc.own == 3 && wc.empty == 1:
			if b.IsPlayable(wc.emptyIdx) {
				score += Reward3 + TrapBonus
			}
		case wc.own == 2 && wc.empty == 2:
			score += Reward2
		case wc.own == 1 && wc.empty == 3:
			score += Reward1
		}

		switch {
		case wc.opp == 3 && wc.empty == 1:
			if b.IsPlayable(wc.emptyIdx) {
				score -= Block3
			}
		case wc.opp == 2 && wc.empty == 2:
			score -= Block2
		}
	}

	for idx, p := range b {
		if p == piece && isolated(b, idx, piece) {
			score -= IsolationPenalty
		}
	}
	return score
}

func isolated(b board.Board, idx int, piece board.Piece) bool {
	row, col := idx/board.NumCols, idx%board.NumCols
	neighbours := [4][2]int{{row, col - 1}, {row, col + 1}, {row + 1, col}, {row - 1, col}}
	for _, n := range neighbours {
		r, c := n[0], n[1]
		if r < 0 || r >= board.NumRows || c < 0 || c >= board.NumCols {
			continue
		}
		if b.At(r, c) == piece {
			return false
		}
	}
	return true
}
