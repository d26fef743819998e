// Command analyze prints a quick, human-readable preview of 2048 boards read
// from JSON files (or stdin when no file is given). For each board it shows
// the tile summary, whether the board is terminal, and for every direction
// the merged board, the reward and how many spawn outcomes follow.
//
// A board file holds a square array of rows:
//
//	[[8, 8, 8, 8], [8, 16, 16, 32], [256, 0, 0, 0], [2, 2, 32, 32]]
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	failed := false
	for _, path := range paths {
		fmt.Printf("\n=== Analyzing %s ===\n", displayName(path))
		if err := analyzeFile(path, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func analyzeFile(path string, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read board: %w", err)
	}

	board, err := parseBoard(data)
	if err != nil {
		return err
	}
	return writeAnalysis(board, w)
}

func parseBoard(data []byte) (engine.Board, error) {
	var board engine.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("parse board JSON: %w", err)
	}
	return board, nil
}

func writeAnalysis(board engine.Board, w io.Writer) error {
	analysis, err := engine.Analyze(board)
	if err != nil {
		return err
	}

	fmt.Fprint(w, board)
	fmt.Fprintf(w, "Size: %d x %d\n", analysis.Size, analysis.Size)
	fmt.Fprintf(w, "Sum: %d\n", analysis.Sum)
	fmt.Fprintf(w, "Max Tile: %d\n", analysis.MaxTile)
	fmt.Fprintf(w, "Empty Cells: %d\n", analysis.Empty)

	if analysis.Terminal {
		fmt.Fprintln(w, "⚠️  Terminal: no move can change this board")
		return nil
	}

	for _, m := range analysis.Moves {
		fmt.Fprintf(w, "\n-- %s --\n", m.Name)
		if m.Useless {
			fmt.Fprintln(w, "   no change")
			continue
		}
		fmt.Fprint(w, indent(m.Merged.String(), "   "))
		fmt.Fprintf(w, "   reward: %d, next states: %d\n", m.Reward, m.NextStates)
	}

	if best, ok := analysis.Best(); ok {
		fmt.Fprintf(w, "\n✅ Best immediate reward: %s (%d)\n", best.Name, best.Reward)
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix + line)
	}
	return b.String()
}
