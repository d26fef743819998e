package engine

import (
	"fmt"
	"io"
	"math/rand"
)

// Game is the simple 2048 game object. Every move writes console text to its
// writer: the move name, a notice on no-op moves, the board and, once the
// game is over, the final score. Its score is the sum of the board.
type Game struct {
	board    Board
	score    int
	gameOver bool
	moves    int
	rng      *rand.Rand
	out      io.Writer
	config   *GameConfig
}

// GameOption customizes a Game
type GameOption func(*Game)

// WithConfig uses the messages and initial tile count of config
func WithConfig(config *GameConfig) GameOption {
	return func(g *Game) {
		g.config = config
	}
}

// NewGame creates a game with a size×size board holding its initial tiles
func NewGame(size int, rng *rand.Rand, out io.Writer, opts ...GameOption) *Game {
	if out == nil {
		out = io.Discard
	}

	g := &Game{
		board:  NewBoard(size),
		rng:    rng,
		out:    out,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}

	for i := 0; i < g.config.InitialTiles; i++ {
		g.board, _, _ = Spawn(g.board, g.rng)
	}

	return g
}

// NewGameFromBoard creates a game starting from an existing board. No
// initial tiles are spawned.
func NewGameFromBoard(board Board, rng *rand.Rand, out io.Writer, opts ...GameOption) *Game {
	if out == nil {
		out = io.Discard
	}
	g := &Game{
		board:  board.Clone(),
		rng:    rng,
		out:    out,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.score = g.board.Sum()
	return g
}

// Board returns a copy of the current board
func (g *Game) Board() Board {
	return g.board.Clone()
}

// Score returns the sum of the board after the last applied move
func (g *Game) Score() int {
	return g.score
}

// IsGameOver returns whether the last move left a terminal board
func (g *Game) IsGameOver() bool {
	return g.gameOver
}

// Moves returns the number of moves attempted, including no-ops
func (g *Game) Moves() int {
	return g.moves
}

// Move runs one move through the pipeline and reports it
func (g *Game) Move(d Direction) error {
	if err := d.Check(); err != nil {
		return err
	}

	fmt.Fprintf(g.out, "move_%s\n", d)

	outcome, err := Apply(g.board, d, g.rng)
	if err != nil {
		return err
	}
	g.moves++

	// a no-op leaves the score as it was
	if outcome.Applied {
		g.board = outcome.Board
		g.score = g.board.Sum()
	} else {
		fmt.Fprintln(g.out, g.config.Messages.NoOp)
	}

	fmt.Fprint(g.out, g.board)
	g.gameOver = outcome.Terminal
	if g.gameOver {
		fmt.Fprintf(g.out, g.config.Messages.GameOver+"\n", g.score)
	}

	return nil
}

// MoveUp slides the board up
func (g *Game) MoveUp() { _ = g.Move(Up) }

// MoveDown slides the board down
func (g *Game) MoveDown() { _ = g.Move(Down) }

// MoveLeft slides the board left
func (g *Game) MoveLeft() { _ = g.Move(Left) }

// MoveRight slides the board right
func (g *Game) MoveRight() { _ = g.Move(Right) }

// RandomMoves plays up to n uniformly random moves, stopping at game over
func (g *Game) RandomMoves(n int) {
	for i := 0; i < n && !g.gameOver; i++ {
		_ = g.Move(Directions[g.rng.Intn(len(Directions))])
	}
}

// String renders the board followed by the score
func (g *Game) String() string {
	return fmt.Sprintf("%sScore: %d\n", g.board, g.score)
}
