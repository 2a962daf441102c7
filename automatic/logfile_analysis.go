package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/domino14/fourplay/board"
)

// AnalyzeLogFile reads a match log written by PlayMatch and summarizes it.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

func AnalyzeLog(rd io.Reader) (*Summary, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = 7

	// Record looks like:
	// gameID,first,p1,p2,winner,plies,board
	var s *Summary
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		if s == nil {
			s = NewSummary(record[2], record[3])
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, err
		}
		plies, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, err
		}
		b, err := board.Parse(record[6])
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", id, err)
		}
		s.Add(GameResult{GameID: id, First: record[1], Winner: record[4], Plies: plies, Board: b})
	}
	if s == nil {
		s = NewSummary("", "")
	}
	return s, nil
}
