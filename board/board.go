// Package board implements the Connect-Four grid: gravity placement,
// validity queries, alignment windows and win detection. A Board is a
// fixed-size value type; every placement returns a new Board, so boards can
// be shared freely across search branches and used directly as map keys.
package board

import "github.com/samber/lo"

const (
	// NumRows is the number of rows. Row 0 is the bottom.
	NumRows = 6
	// NumCols is the number of columns.
	NumCols = 7
	// NumSquares is the length of the flat board.
	NumSquares = NumRows * NumCols
	// WindowLength is the number of cells in an alignment window.
	WindowLength = 4
	// CenterCol is the column with the most alignment windows through it.
	CenterCol = NumCols / 2
)

// Piece is the content of a single cell.
type Piece uint8

const (
	Empty Piece = iota
	PlayerPiece
	AIPiece
)

// Opponent returns the other side's piece. Empty has no opponent and returns
// Empty.
func (p Piece) Opponent() Piece {
	switch p {
	case PlayerPiece:
		return AIPiece
	case AIPiece:
		return PlayerPiece
	}
	return Empty
}

func (p Piece) String() string {
	switch p {
	case PlayerPiece:
		return "player"
	case AIPiece:
		return "ai"
	}
	return "empty"
}

// A Board is a row-major grid of pieces: index = row*NumCols + col.
type Board [NumSquares]Piece

// A Window is four board indices lying on one contiguous line.
type Window [WindowLength]int

var windows = generateWindows()

func generateWindows() []Window {
	ws := make([]Window, 0, 69)
	// horizontal
	for r := 0; r < NumRows; r++ {
		for c := 0; c < NumCols-3; c++ {
			ws = append(ws, Window{Index(r, c), Index(r, c+1), Index(r, c+2), Index(r, c+3)})
		}
	}
	// vertical
	for c := 0; c < NumCols; c++ {
		for r := 0; r < NumRows-3; r++ {
			ws = append(ws, Window{Index(r, c), Index(r+1, c), Index(r+2, c), Index(r+3, c)})
		}
	}
	// positive slope
	for r := 0; r < NumRows-3; r++ {
		for c := 0; c < NumCols-3; c++ {
			ws = append(ws, Window{Index(r, c), Index(r+1, c+1), Index(r+2, c+2), Index(r+3, c+3)})
		}
	}
	// negative slope
	for r := 3; r < NumRows; r++ {
		for c := 0; c < NumCols-3; c++ {
			ws = append(ws, Window{Index(r, c), Index(r-1, c+1), Index(r-2, c+2), Index(r-3, c+3)})
		}
	}
	return ws
}

// Windows returns every alignment window on the board. The slice is shared
// and must not be modified.
func Windows() []Window {
	return windows
}

// Index converts a (row, col) pair to a flat board index.
func Index(row, col int) int {
	return row*NumCols + col
}

// New returns an empty board.
func New() Board {
	return Board{}
}

// At returns the piece at (row, col).
func (b Board) At(row, col int) Piece {
	return b[Index(row, col)]
}

// IsValidLocation returns whether a piece can still be dropped in col.
// Out-of-range columns are never valid.
func (b Board) IsValidLocation(col int) bool {
	if col < 0 || col >= NumCols {
		return false
	}
	return b[Index(NumRows-1, col)] == Empty
}

// NextOpenRow returns the lowest empty row in col. ok is false if the column
// is full.
func (b Board) NextOpenRow(col int) (row int, ok bool) {
	for r := 0; r < NumRows; r++ {
		if b[Index(r, col)] == Empty {
			return r, true
		}
	}
	return 0, false
}

// DropPiece returns a copy of b with piece placed at (row, col). It does not
// check legality; row should come from NextOpenRow.
func (b Board) DropPiece(row, col int, piece Piece) Board {
	b[Index(row, col)] = piece
	return b
}

// ValidLocations returns the playable columns in ascending order.
func (b Board) ValidLocations() []int {
	return lo.Filter(lo.Range(NumCols), func(col int, _ int) bool {
		return b.IsValidLocation(col)
	})
}

// IsFull returns true if no empty cell remains.
func (b Board) IsFull() bool {
	return !lo.Contains(b[:], Empty)
}

// Count returns the number of cells holding p.
func (b Board) Count(p Piece) int {
	return lo.Count(b[:], p)
}

// MoveCount returns the number of pieces on the board.
func (b Board) MoveCount() int {
	return NumSquares - b.Count(Empty)
}

func (b Board) windowFilledBy(w Window, piece Piece) bool {
	for _, idx := range w {
		if b[idx] != piece {
			return false
		}
	}
	return true
}

// WinningMove returns whether piece has four in a row anywhere.
func (b Board) WinningMove(piece Piece) bool {
	for _, w := range windows {
		if b.windowFilledBy(w, piece) {
			return true
		}
	}
	return false
}

// Tally holds the number of completed alignments for each side.
type Tally struct {
	Player int
	AI     int
}

// CheckWinner counts every completed four-in-a-row for each side. Runs longer
// than four count once per window they fill, so a row of five scores two.
func (b Board) CheckWinner() Tally {
	t := Tally{}
	for _, w := range windows {
		switch {
		case b.windowFilledBy(w, PlayerPiece):
			t.Player++
		case b.windowFilledBy(w, AIPiece):
			t.AI++
		}
	}
	return t
}

// IsPlayable returns whether idx is exactly the next open cell of its column,
// i.e. a piece dropped in that column right now would land on idx.
func (b Board) IsPlayable(idx int) bool {
	col := idx % NumCols
	row, ok := b.NextOpenRow(col)
	return ok && Index(row, col) == idx
}
