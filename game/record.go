package game

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/domino14/fourplay/board"
)

// Record is the serializable form of a game. Columns are 0-based.
type Record struct {
	UID    string `yaml:"uid"`
	Rules  Rules  `yaml:"rules"`
	First  string `yaml:"first"`
	Start  string `yaml:"start,omitempty"`
	Moves  []int  `yaml:"moves"`
	Final  string `yaml:"final"`
	Winner string `yaml:"winner,omitempty"`
}

func pieceFromName(s string) (board.Piece, error) {
	switch s {
	case board.PlayerPiece.String():
		return board.PlayerPiece, nil
	case board.AIPiece.String():
		return board.AIPiece, nil
	}
	return board.Empty, fmt.Errorf("unknown side %q", s)
}

// Record returns the game as a Record.
func (g *Game) Record() Record {
	r := Record{
		UID:   g.uid,
		Rules: g.rules,
		First: g.first.String(),
		Moves: make([]int, len(g.history)),
		Final: g.board.String(),
	}
	if g.start != board.New() {
		r.Start = g.start.String()
	}
	for i, m := range g.history {
		r.Moves[i] = m.Col
	}
	if g.over {
		r.Winner = g.winner.String()
	}
	return r
}

// Save writes the game record as YAML.
func (g *Game) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.Record()); err != nil {
		return err
	}
	return enc.Close()
}

// FromRecord rebuilds a game by replaying the recorded moves.
func FromRecord(r Record) (*Game, error) {
	rules, err := ParseRules(string(r.Rules))
	if err != nil {
		return nil, err
	}
	first, err := pieceFromName(r.First)
	if err != nil {
		return nil, err
	}
	g := New(rules, first)
	if r.Start != "" {
		b, err := board.Parse(r.Start)
		if err != nil {
			return nil, err
		}
		if g, err = NewFromBoard(rules, first, b); err != nil {
			return nil, err
		}
	}
	if r.UID != "" {
		g.uid = r.UID
	}
	for i, col := range r.Moves {
		if err := g.Play(col); err != nil {
			return nil, fmt.Errorf("replaying move %d: %w", i+1, err)
		}
	}
	if r.Final != "" && r.Final != g.board.String() {
		return nil, fmt.Errorf("replayed board %s does not match recorded %s",
			g.board.String(), r.Final)
	}
	return g, nil
}

// Load reads a YAML game record and replays it.
func Load(rd io.Reader) (*Game, error) {
	var r Record
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return nil, err
	}
	return FromRecord(r)
}
