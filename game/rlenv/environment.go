// Package rlenv exposes the 2048 engine as a step-based reinforcement
// learning environment: Reset returns an observation, Step applies an action
// and returns (observation, reward, done, info).
//
// Rewards come from merge accounting (engine.CalculateReward), not from the
// board sum used by engine.Game.
package rlenv

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Info carries auxiliary step data. It is nil on the committed-move path.
type Info map[string]any

// LookaheadInfo describes the result of a NextStates query
type LookaheadInfo struct {
	UselessAction bool `json:"useless_action"`
}

// Environment is a single 2048 episode. It is not safe for concurrent use.
type Environment struct {
	size         int
	initialTiles int
	rng          *rand.Rand
	logger       zerolog.Logger
	verbose      bool

	board Board
	score int
	done  bool
	moves int
}

// Board is the observation type
type Board = engine.Board

// Option customizes an Environment
type Option func(*Environment)

// WithLogger sets the logger used for verbose step tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithVerbose logs every step, spawn and game over at info level
func WithVerbose(verbose bool) Option {
	return func(e *Environment) {
		e.verbose = verbose
	}
}

// WithInitialTiles sets how many tiles Reset spawns
func WithInitialTiles(n int) Option {
	return func(e *Environment) {
		e.initialTiles = n
	}
}

// New creates an environment with a size×size board and resets it
func New(size int, rng *rand.Rand, opts ...Option) *Environment {
	e := &Environment{
		size:         size,
		initialTiles: engine.DefaultInitialTiles,
		rng:          rng,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Reset()
	return e
}

// NewFromConfig creates an environment sized and seeded by a game config
func NewFromConfig(config *engine.GameConfig, rng *rand.Rand, opts ...Option) *Environment {
	opts = append([]Option{WithInitialTiles(config.InitialTiles)}, opts...)
	return New(config.BoardSize, rng, opts...)
}

// Reset starts a new episode and returns the initial observation
func (e *Environment) Reset() Board {
	e.board = engine.NewBoard(e.size)
	for i := 0; i < e.initialTiles; i++ {
		e.board, _, _ = engine.Spawn(e.board, e.rng)
	}
	e.score = 0
	e.done = false
	e.moves = 0

	return e.board.Clone()
}

// Step applies direction d. The reward is the value created by merges; a move
// that does not change the board earns 0 and spawns nothing.
func (e *Environment) Step(d engine.Direction) (Board, int, bool, Info, error) {
	if err := d.Check(); err != nil {
		return nil, 0, e.done, nil, err
	}

	if e.verbose {
		e.logger.Info().Stringer("direction", d).Int("move", e.moves+1).Msg("step")
	}

	outcome, err := engine.Apply(e.board, d, e.rng)
	if err != nil {
		return nil, 0, e.done, nil, err
	}
	e.moves++

	reward := 0
	if outcome.Applied {
		reward = engine.CalculateReward(e.board, outcome.Merged)
		e.board = outcome.Board
		e.score += reward
		if e.verbose {
			e.logger.Info().Int("row", outcome.Spawned.Row).Int("col", outcome.Spawned.Col).Msg("pop up number")
		}
	} else {
		e.logger.Debug().Stringer("direction", d).Msg("move did not change the board")
	}

	e.done = outcome.Terminal

	if e.verbose {
		e.logger.Info().Str("board", e.board.String()).Int("reward", reward).Msg("board")
		if e.done {
			e.logger.Info().Int("score", e.score).Msg("game over")
		}
	}

	return e.board.Clone(), reward, e.done, nil, nil
}

// NextStates lists every board the move d can lead to without committing it
func (e *Environment) NextStates(d engine.Direction) ([]Board, LookaheadInfo, error) {
	states, useless, err := engine.NextStates(e.board, d)
	if err != nil {
		return nil, LookaheadInfo{}, err
	}
	return states, LookaheadInfo{UselessAction: useless}, nil
}

// ActionReward returns the reward Step(d) would earn without committing it
func (e *Environment) ActionReward(d engine.Direction) (int, error) {
	merged, err := engine.Slide(e.board, d)
	if err != nil {
		return 0, err
	}
	return engine.CalculateReward(e.board, merged), nil
}

// Board returns a copy of the current observation
func (e *Environment) Board() Board {
	return e.board.Clone()
}

// SetBoard replaces the current board and recomputes the terminal flag
func (e *Environment) SetBoard(b Board) {
	e.board = b.Clone()
	e.size = b.Size()
	e.done = engine.IsTerminal(e.board)
}

// Score returns the sum of rewards since the last Reset
func (e *Environment) Score() int {
	return e.score
}

// Done reports whether the last step reached a terminal board
func (e *Environment) Done() bool {
	return e.done
}

// Moves returns the number of steps since the last Reset
func (e *Environment) Moves() int {
	return e.moves
}

// Size returns the board dimension
func (e *Environment) Size() int {
	return e.size
}
