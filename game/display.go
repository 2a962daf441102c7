package game

import (
	"fmt"
	"strings"

	"github.com/domino14/fourplay/board"
)

// ToDisplayText renders the board followed by a status line.
func (g *Game) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(g.board.ToDisplayText())
	sb.WriteString("\n")
	sb.WriteString(g.status())
	sb.WriteString("\n")
	return sb.String()
}

func (g *Game) status() string {
	if !g.over {
		s := fmt.Sprintf("Move %d, %s to play", len(g.history)+1, g.onturn)
		if m, ok := g.LastMove(); ok {
			s += fmt.Sprintf(" (last: %s in column %d)", m.Piece, m.Col+1)
		}
		return s
	}
	var s string
	switch g.winner {
	case board.Empty:
		s = "Game over: draw"
	default:
		s = fmt.Sprintf("Game over: %s wins", g.winner)
	}
	if g.rules == FullBoardRules {
		s += fmt.Sprintf(" (alignments: player %d, ai %d)", g.tally.Player, g.tally.AI)
	}
	return s
}
