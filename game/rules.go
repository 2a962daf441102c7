package game

import (
	"errors"
	"fmt"
)

var ErrUnknownRules = errors.New("unknown rules")

// Rules decide when a game ends and who won it.
type Rules string

const (
	// ConnectRules end the game at the first four-in-a-row, or at a full
	// board with no alignment (a draw).
	ConnectRules Rules = "connect"
	// FullBoardRules always play until the board is full, then award the
	// game to the side with more completed alignments.
	FullBoardRules Rules = "fullboard"

	DefaultRules = ConnectRules
)

func ParseRules(s string) (Rules, error) {
	switch Rules(s) {
	case ConnectRules, FullBoardRules:
		return Rules(s), nil
	case "":
		return DefaultRules, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRules, s)
}

func (r Rules) String() string {
	return string(r)
}
