package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidBoard is wrapped by ValidateBoard errors
var ErrInvalidBoard = errors.New("invalid board")

// MoveAnalysis previews one direction on a board
type MoveAnalysis struct {
	Direction  Direction `json:"-"`
	Name       string    `json:"direction"`
	Reward     int       `json:"reward"`
	Useless    bool      `json:"useless"`
	NextStates int       `json:"next_states"`
	Merged     Board     `json:"merged"`
}

// BoardAnalysis summarizes a board and every move from it
type BoardAnalysis struct {
	Size     int            `json:"size"`
	Sum      int            `json:"sum"`
	MaxTile  int            `json:"max_tile"`
	Empty    int            `json:"empty"`
	Terminal bool           `json:"terminal"`
	Moves    []MoveAnalysis `json:"moves"`
}

// ValidateBoard checks that b is a square board within the size limits whose
// cells are 0 or powers of two from 2 up
func ValidateBoard(b Board) error {
	n := len(b)
	if n < MinBoardSize || n > MaxBoardSize {
		return fmt.Errorf("%w: size must be between %d and %d, got %d", ErrInvalidBoard, MinBoardSize, MaxBoardSize, n)
	}
	for r, row := range b {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), n)
		}
		for c, v := range row {
			if v == 0 {
				continue
			}
			if v < 2 || v&(v-1) != 0 {
				return fmt.Errorf("%w: cell (%d,%d) holds %d, not a power of two", ErrInvalidBoard, r, c, v)
			}
		}
	}
	return nil
}

// Analyze validates b and previews all four directions without spawning
func Analyze(b Board) (*BoardAnalysis, error) {
	if err := ValidateBoard(b); err != nil {
		return nil, err
	}

	analysis := &BoardAnalysis{
		Size:     b.Size(),
		Sum:      b.Sum(),
		MaxTile:  b.MaxTile(),
		Empty:    len(b.EmptyCells()),
		Terminal: IsTerminal(b),
	}

	for _, d := range Directions {
		merged, err := Slide(b, d)
		if err != nil {
			return nil, err
		}
		states, useless, err := NextStates(b, d)
		if err != nil {
			return nil, err
		}
		analysis.Moves = append(analysis.Moves, MoveAnalysis{
			Direction:  d,
			Name:       d.String(),
			Reward:     CalculateReward(b, merged),
			Useless:    useless,
			NextStates: len(states),
			Merged:     merged,
		})
	}

	return analysis, nil
}

// Best returns the useful move with the highest reward, preferring the
// earlier direction on ties. ok is false when no move changes the board.
func (a *BoardAnalysis) Best() (best MoveAnalysis, ok bool) {
	for _, m := range a.Moves {
		if m.Useless {
			continue
		}
		if !ok || m.Reward > best.Reward {
			best, ok = m, true
		}
	}
	return best, ok
}
