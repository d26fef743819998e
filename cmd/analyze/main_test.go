package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBoard(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: `[[2, 0], [0, 4]]`},
		{name: "not json", input: `2 0 0 4`, wantErr: true},
		{name: "object", input: `{"board": []}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := parseBoard([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if board.Size() != 2 || board[1][1] != 4 {
				t.Errorf("Unexpected board: %v", board)
			}
		})
	}
}

func TestWriteAnalysis(t *testing.T) {
	board, err := parseBoard([]byte(`[[8,8,8,8],[8,16,16,32],[256,0,0,0],[2,2,32,32]]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var out bytes.Buffer
	if err := writeAnalysis(board, &out); err != nil {
		t.Fatalf("writeAnalysis: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Size: 4 x 4",
		"Empty Cells: 3",
		"-- right --",
		"reward: 132",
		"Best immediate reward:",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestWriteAnalysis_Terminal(t *testing.T) {
	board, _ := parseBoard([]byte(`[[2,4],[4,2]]`))

	var out bytes.Buffer
	if err := writeAnalysis(board, &out); err != nil {
		t.Fatalf("writeAnalysis: %v", err)
	}
	if !strings.Contains(out.String(), "Terminal") {
		t.Errorf("Expected terminal notice, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "-- up --") {
		t.Error("Terminal boards should not list moves")
	}
}

func TestWriteAnalysis_Invalid(t *testing.T) {
	board, _ := parseBoard([]byte(`[[3,0],[0,0]]`))
	if err := writeAnalysis(board, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for invalid tile value")
	}
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, []byte(`[[2,2,0],[0,0,0],[0,0,4]]`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	if err := analyzeFile(path, &out); err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}
	if !strings.Contains(out.String(), "reward: 4") {
		t.Errorf("Expected merge reward in output:\n%s", out.String())
	}

	if err := analyzeFile(filepath.Join(dir, "missing.json"), &out); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestIndent(t *testing.T) {
	if got := indent("a\nb\n", "> "); got != "> a\n> b\n" {
		t.Errorf("Unexpected indent result %q", got)
	}
}
