package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/rlenv"
)

// GameState is a snapshot of a session's environment
type GameState struct {
	Board    engine.Board `json:"board"`
	Rendered string       `json:"rendered"`
	Score    int          `json:"score"`
	Done     bool         `json:"done"`
	Moves    int          `json:"moves"`
	MaxTile  int          `json:"max_tile"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *GameState         `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// StepResult contains the result of a step operation
type StepResult struct {
	Direction string     `json:"direction"`
	Reward    int        `json:"reward"`
	Done      bool       `json:"done"`
	Truncated bool       `json:"truncated,omitempty"` // move limit of the config reached
	Info      rlenv.Info `json:"info,omitempty"`
	GameState *GameState `json:"game_state"`
}

// LookaheadResult lists the boards a move can lead to
type LookaheadResult struct {
	Direction     string         `json:"direction"`
	UselessAction bool           `json:"useless_action"`
	Count         int            `json:"count"`
	States        []engine.Board `json:"states"`
}

// RewardResult is the reward a move would earn
type RewardResult struct {
	Direction string `json:"direction"`
	Reward    int    `json:"reward"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string `json:"filename"`
	ConfigID     string `json:"config_id"` // The identifier to use for session creation
	Name         string `json:"name"`      // Display name
	Description  string `json:"description"`
	BoardSize    int    `json:"board_size"`
	InitialTiles int    `json:"initial_tiles"`
	MaxMoves     int    `json:"max_moves"`
}
