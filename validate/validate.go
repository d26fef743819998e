// Command validate checks 2048 game configuration JSON files. It checks:
//   - JSON structure and required fields
//   - Board size, initial tile count and move cap ranges
//   - The game_over message carries a %d for the score
//   - Playability: a short swirl game on the configured board makes progress
//
// With no arguments it validates game/config/builtin/*.json. Otherwise every
// argument is a file or directory to validate.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	// Decode once without defaults to report which optional fields fall back
	var raw engine.GameConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Board: %dx%d with %d initial tiles", config.BoardSize, config.BoardSize, config.InitialTiles))
	if config.MaxMoves > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Move cap: %d", config.MaxMoves))
	}
	if raw.InitialTiles == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ initial_tiles defaulted to %d", engine.DefaultInitialTiles))
	}
	if raw.Messages.NoOp == "" || raw.Messages.GameOver == "" {
		result.Errors = append(result.Errors, "✓ Missing messages use the defaults")
	}

	playability := validatePlayability(config)
	if !playability.Valid {
		result.Valid = false
		result.Errors = playability.Errors
		return result
	}
	result.Errors = append(result.Errors, playability.Errors...)

	return result
}

// validatePlayability plays a seeded swirl game and checks that the first
// moves change the board and that a full initial board is not already over
func validatePlayability(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	game := engine.NewGame(config.BoardSize, rand.New(rand.NewSource(1)), nil, engine.WithConfig(config))
	start := game.Board()
	if engine.IsTerminal(start) {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("initial_tiles %d fills the %dx%d board with no merge available", config.InitialTiles, config.BoardSize, config.BoardSize))
		return result
	}

	swirl := []engine.Direction{engine.Down, engine.Left, engine.Up, engine.Right}
	for i := 0; i < 4; i++ {
		_ = game.Move(swirl[i])
	}
	if game.Board().Equal(start) {
		result.Valid = false
		result.Errors = append(result.Errors, "no move changed the starting board")
		return result
	}

	result.Errors = append(result.Errors, "✓ Starting board is playable")
	return result
}

// collectFiles expands directories into their *.json files
func collectFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{filepath.Join("game", "config", "builtin")}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates each file, printing a concise report and exiting with
// non-zero status if any are invalid
func main() {
	files, err := collectFiles(os.Args[1:])
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
