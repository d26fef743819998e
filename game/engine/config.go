package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	DefaultNoOpMessage     = "Move did not change the board, no new number popped up."
	DefaultGameOverMessage = "Game over! Score: %d"
)

// DefaultConfig returns the classic 4×4 configuration
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:         "classic",
		Description:  "Classic 4x4 board with two starting tiles",
		BoardSize:    DefaultBoardSize,
		InitialTiles: DefaultInitialTiles,
	}
	config.Messages.NoOp = DefaultNoOpMessage
	config.Messages.GameOver = DefaultGameOverMessage
	return config
}

// ApplyDefaults fills optional fields left empty in a loaded configuration
func ApplyDefaults(config *GameConfig) {
	if config.InitialTiles == 0 {
		config.InitialTiles = DefaultInitialTiles
	}
	if config.Messages.NoOp == "" {
		config.Messages.NoOp = DefaultNoOpMessage
	}
	if config.Messages.GameOver == "" {
		config.Messages.GameOver = DefaultGameOverMessage
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d",
			MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	cells := config.BoardSize * config.BoardSize
	if config.InitialTiles < 1 || config.InitialTiles > cells {
		return fmt.Errorf("config validation: initial_tiles must be between 1 and %d, got %d",
			cells, config.InitialTiles)
	}

	if config.MaxMoves < 0 {
		return fmt.Errorf("config validation: max_moves must not be negative, got %d", config.MaxMoves)
	}

	// Validate format strings
	if !strings.Contains(config.Messages.GameOver, "%d") {
		return fmt.Errorf("config validation: messages.game_over must contain %%d for score")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return ParseGameConfig(data)
}

// ParseGameConfig decodes, defaults and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	ApplyDefaults(&config)

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
