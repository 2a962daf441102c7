package board

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBadEncoding = errors.New("bad board encoding")

var pieceCodes = [...]byte{Empty: '0', PlayerPiece: '1', AIPiece: '2'}

// String returns the flat encoding of the board: one character per cell,
// '0' empty, '1' player, '2' AI, row-major from the bottom row.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(NumSquares)
	for _, p := range b {
		sb.WriteByte(pieceCodes[p])
	}
	return sb.String()
}

// Parse decodes a board produced by String.
func Parse(s string) (Board, error) {
	var b Board
	if len(s) != NumSquares {
		return b, fmt.Errorf("%w: length %d, expected %d", ErrBadEncoding, len(s), NumSquares)
	}
	for i := 0; i < NumSquares; i++ {
		switch s[i] {
		case '0':
			b[i] = Empty
		case '1':
			b[i] = PlayerPiece
		case '2':
			b[i] = AIPiece
		default:
			return b, fmt.Errorf("%w: unexpected character %q at %d", ErrBadEncoding, s[i], i)
		}
	}
	return b, nil
}

func (p Piece) displayRune() rune {
	switch p {
	case PlayerPiece:
		return 'X'
	case AIPiece:
		return 'O'
	}
	return '.'
}

// ToDisplayText renders the board top row first, with 1-based column labels.
func (b Board) ToDisplayText() string {
	var str strings.Builder
	row := "  "
	for c := 0; c < NumCols; c++ {
		row += fmt.Sprintf("%d ", c+1)
	}
	str.WriteString(row + "\n")
	str.WriteString(" " + strings.Repeat("-", NumCols*2+1) + "\n")
	for r := NumRows - 1; r >= 0; r-- {
		str.WriteString("|")
		for c := 0; c < NumCols; c++ {
			str.WriteString(" " + string(b.At(r, c).displayRune()))
		}
		str.WriteString(" |\n")
	}
	str.WriteString(" " + strings.Repeat("-", NumCols*2+1) + "\n")
	return "\n" + str.String()
}
