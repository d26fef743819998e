package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// SpawnValue is the tile placed after every applied move.
	// TODO: spawn 4 with 10% probability like standard 2048.
	SpawnValue = 2

	// Validation constants
	MinBoardSize        = 2
	MaxBoardSize        = 16
	DefaultBoardSize    = 4
	DefaultInitialTiles = 2
)

// Position represents row,col coordinates on a board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a square grid of tile values indexed as [row][col]. Zero is empty.
type Board [][]int

// NewBoard creates an empty size×size board
func NewBoard(size int) Board {
	b := make(Board, size)
	for i := range b {
		b[i] = make([]int, size)
	}
	return b
}

// Size returns the board dimension N
func (b Board) Size() int {
	return len(b)
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for i, row := range b {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Equal reports whether both boards hold the same values cell by cell
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if len(b[i]) != len(other[i]) {
			return false
		}
		for j := range b[i] {
			if b[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// EmptyCells returns the empty positions in row-major order
func (b Board) EmptyCells() []Position {
	var empty []Position
	for r, row := range b {
		for c, v := range row {
			if v == 0 {
				empty = append(empty, Position{Row: r, Col: c})
			}
		}
	}
	return empty
}

// TileCount returns the number of nonzero cells
func (b Board) TileCount() int {
	count := 0
	for _, row := range b {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// Sum returns the sum of all tile values
func (b Board) Sum() int {
	total := 0
	for _, row := range b {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// MaxTile returns the largest tile value on the board
func (b Board) MaxTile() int {
	best := 0
	for _, row := range b {
		for _, v := range row {
			if v > best {
				best = v
			}
		}
	}
	return best
}

// String renders the board as right-aligned columns, one row per line
func (b Board) String() string {
	width := len(strconv.Itoa(b.MaxTile()))
	var sb strings.Builder
	for _, row := range b {
		sb.WriteString("[")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%*d", width, v)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// Outcome is the result of running the post-move pipeline on a board
type Outcome struct {
	Board    Board    `json:"board"`
	Merged   Board    `json:"merged"` // post-merge board before the spawn
	Applied  bool     `json:"applied"`
	Spawned  Position `json:"spawned"`
	Terminal bool     `json:"terminal"`
}

// GameConfig represents a game configuration loaded from JSON
type GameConfig struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	BoardSize    int    `json:"board_size"`
	InitialTiles int    `json:"initial_tiles"`
	MaxMoves     int    `json:"max_moves"`
	Messages     struct {
		NoOp     string `json:"no_op"`
		GameOver string `json:"game_over"`
	} `json:"messages"`
}
