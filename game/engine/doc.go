// Package engine provides the board transition engine for the 2048 game.
//
// The engine package implements the game mechanics including:
//   - Sliding and merging tiles in one of four directions
//   - Reward accounting for merges between two boards
//   - Random tile spawning from an injected random source
//   - Terminal (game over) detection
//   - Lookahead over every possible spawn after a move
//   - Configuration loading and validation
//
// Core Types:
//
// Board is an N×N grid of non-negative integers where 0 marks an empty cell.
// Boards are treated as values: every transition returns a new Board and
// leaves its input untouched. Direction is the closed set of moves. Game is
// the simple console game object that prints its progress after each move.
//
// Usage:
//
//	rng := rand.New(rand.NewSource(42))
//	game := engine.NewGame(4, rng, os.Stdout)
//
//	game.MoveRight()
//	game.MoveUp()
//	fmt.Println(game.Score(), game.IsGameOver())
//
// Scoring:
//
// The Game object scores a board as the plain sum of its tiles, recomputed
// after every move. Reward-driven callers use CalculateReward instead, which
// accounts only for the value created by merges. The two are unrelated.
package engine
