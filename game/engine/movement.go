package engine

import (
	"errors"
	"math/rand"
)

// ErrBoardFull is returned when a tile must be spawned on a board with no empty cell
var ErrBoardFull = errors.New("board has no empty cell")

// lineCells returns the cells of line k ordered from the target end of
// direction d inward. Rows are lines for Left/Right, columns for Up/Down.
func lineCells(size int, d Direction, k int) []Position {
	cells := make([]Position, size)
	for i := 0; i < size; i++ {
		switch d {
		case Up:
			cells[i] = Position{Row: i, Col: k}
		case Down:
			cells[i] = Position{Row: size - 1 - i, Col: k}
		case Left:
			cells[i] = Position{Row: k, Col: i}
		case Right:
			cells[i] = Position{Row: k, Col: size - 1 - i}
		}
	}
	return cells
}

// compact moves nonzero values to the front of line, keeping their order
func compact(line []int) {
	n := 0
	for _, v := range line {
		if v != 0 {
			line[n] = v
			n++
		}
	}
	for ; n < len(line); n++ {
		line[n] = 0
	}
}

// collapse compacts, merges each equal adjacent pair once starting at index
// 0, and compacts again. Index 0 is the target end.
func collapse(line []int) {
	compact(line)
	for i := 0; i+1 < len(line); i++ {
		if line[i] != 0 && line[i] == line[i+1] {
			line[i] += line[i+1]
			line[i+1] = 0
		}
	}
	compact(line)
}

// Slide returns the board after sliding and merging every line towards d.
// The input board is not modified.
func Slide(b Board, d Direction) (Board, error) {
	if err := d.Check(); err != nil {
		return nil, err
	}

	size := b.Size()
	out := NewBoard(size)
	line := make([]int, size)

	for k := 0; k < size; k++ {
		cells := lineCells(size, d, k)
		for i, p := range cells {
			line[i] = b[p.Row][p.Col]
		}
		collapse(line)
		for i, p := range cells {
			out[p.Row][p.Col] = line[i]
		}
	}

	return out, nil
}

// Spawn places SpawnValue on an empty cell chosen uniformly at random
func Spawn(b Board, rng *rand.Rand) (Board, Position, error) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return nil, Position{}, ErrBoardFull
	}

	pos := empty[rng.Intn(len(empty))]
	out := b.Clone()
	out[pos.Row][pos.Col] = SpawnValue
	return out, pos, nil
}

// Apply runs the post-move pipeline: slide, detect a no-op, spawn and
// recompute the terminal flag. A no-op returns the input board unchanged
// with Applied false.
func Apply(b Board, d Direction, rng *rand.Rand) (Outcome, error) {
	merged, err := Slide(b, d)
	if err != nil {
		return Outcome{}, err
	}

	if merged.Equal(b) {
		return Outcome{
			Board:    b,
			Merged:   merged,
			Terminal: IsTerminal(b),
		}, nil
	}

	next, pos, err := Spawn(merged, rng)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Board:    next,
		Merged:   merged,
		Applied:  true,
		Spawned:  pos,
		Terminal: IsTerminal(next),
	}, nil
}

// NextStates enumerates every board reachable by moving d. When the move does
// not change the board it reports useless and returns the board itself as the
// only state. Otherwise it returns one board per empty cell of the merged
// board with SpawnValue placed there, in row-major order.
func NextStates(b Board, d Direction) ([]Board, bool, error) {
	merged, err := Slide(b, d)
	if err != nil {
		return nil, false, err
	}

	if merged.Equal(b) {
		return []Board{b.Clone()}, true, nil
	}

	empty := merged.EmptyCells()
	states := make([]Board, 0, len(empty))
	for _, pos := range empty {
		next := merged.Clone()
		next[pos.Row][pos.Col] = SpawnValue
		states = append(states, next)
	}

	return states, false, nil
}
