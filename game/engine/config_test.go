package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validTestConfig() *GameConfig {
	config := DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func TestValidateGameConfig_Valid(t *testing.T) {
	if err := ValidateGameConfig(validTestConfig()); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	if err := ValidateGameConfig(DefaultConfig()); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestValidateGameConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*GameConfig)
		wantErr string
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"missing description", func(c *GameConfig) { c.Description = "" }, "description is required"},
		{"board too small", func(c *GameConfig) { c.BoardSize = 1 }, "board_size must be between"},
		{"board too large", func(c *GameConfig) { c.BoardSize = MaxBoardSize + 1 }, "board_size must be between"},
		{"no initial tiles", func(c *GameConfig) { c.InitialTiles = 0 }, "initial_tiles must be between"},
		{"too many initial tiles", func(c *GameConfig) { c.InitialTiles = 17 }, "initial_tiles must be between"},
		{"negative max moves", func(c *GameConfig) { c.MaxMoves = -1 }, "max_moves must not be negative"},
		{"game over without score", func(c *GameConfig) { c.Messages.GameOver = "Game over!" }, "messages.game_over must contain"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := validTestConfig()
			test.modify(config)

			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("expected error containing %q, got %q", test.wantErr, err.Error())
			}
			if !strings.HasPrefix(err.Error(), "config validation:") {
				t.Errorf("expected config validation prefix, got %q", err.Error())
			}
		})
	}
}

func TestValidateGameConfig_Nil(t *testing.T) {
	if err := ValidateGameConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestParseGameConfig_AppliesDefaults(t *testing.T) {
	data := []byte(`{"name": "mini", "description": "3x3 board", "board_size": 3}`)

	config, err := ParseGameConfig(data)
	if err != nil {
		t.Fatalf("ParseGameConfig failed: %v", err)
	}
	if config.InitialTiles != DefaultInitialTiles {
		t.Errorf("expected initial tiles %d, got %d", DefaultInitialTiles, config.InitialTiles)
	}
	if config.Messages.NoOp != DefaultNoOpMessage {
		t.Errorf("expected default no-op message, got %q", config.Messages.NoOp)
	}
	if config.Messages.GameOver != DefaultGameOverMessage {
		t.Errorf("expected default game over message, got %q", config.Messages.GameOver)
	}
}

func TestParseGameConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"name": `},
		{"invalid size", `{"name": "x", "description": "y", "board_size": 40}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseGameConfig([]byte(test.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "large.json")
	content := `{
		"name": "large",
		"description": "5x5 board",
		"board_size": 5,
		"initial_tiles": 3,
		"max_moves": 1000,
		"messages": {"game_over": "Finished with %d points"}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if config.BoardSize != 5 || config.InitialTiles != 3 || config.MaxMoves != 1000 {
		t.Errorf("unexpected config values: %+v", config)
	}
	if config.Messages.GameOver != "Finished with %d points" {
		t.Errorf("expected custom game over message, got %q", config.Messages.GameOver)
	}

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
