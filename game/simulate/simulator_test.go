package simulate

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

type memoryRecorder struct {
	summaries []*Summary
	err       error
}

func (m *memoryRecorder) RecordRun(_ context.Context, summary *Summary) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.summaries = append(m.summaries, summary)
	return int64(len(m.summaries)), nil
}

func smallConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "mini"
	config.BoardSize = 3
	return config
}

func TestStrategyByName(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{input: "swirl", want: "swirl"},
		{input: " RANDOM ", want: "random"},
		{input: "greedy", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			strategy, err := StrategyByName(tt.input)
			if tt.err {
				if !errors.Is(err, ErrUnknownStrategy) {
					t.Errorf("expected ErrUnknownStrategy, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strategy.Name() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, strategy.Name())
			}
		})
	}
}

func TestSwirlOrder(t *testing.T) {
	expected := []engine.Direction{engine.Down, engine.Left, engine.Up, engine.Right, engine.Down}
	for n, want := range expected {
		if got := (Swirl{}).Next(n, nil); got != want {
			t.Errorf("move %d: expected %s, got %s", n, want, got)
		}
	}
}

func TestRandomIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := make(map[engine.Direction]bool)
	for n := 0; n < 200; n++ {
		d := (Random{}).Next(n, rng)
		if !d.Valid() {
			t.Fatalf("invalid direction %d", d)
		}
		seen[d] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected all four directions over 200 draws, got %d", len(seen))
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]Result{
		{Score: 2, MaxTile: 2},
		{Score: 4, MaxTile: 4},
		{Score: 4, MaxTile: 4},
		{Score: 4, MaxTile: 2},
		{Score: 5, MaxTile: 4},
		{Score: 5, MaxTile: 2},
		{Score: 7, MaxTile: 8},
		{Score: 9, MaxTile: 4},
	})

	if summary.Runs != 8 {
		t.Errorf("expected 8 runs, got %d", summary.Runs)
	}
	if summary.Average != 5 {
		t.Errorf("expected avg 5, got %g", summary.Average)
	}
	// population standard deviation of the classic example set is exactly 2
	if math.Abs(summary.StdDev-2) > 1e-9 {
		t.Errorf("expected std 2, got %g", summary.StdDev)
	}
	if summary.Min != 2 || summary.Max != 9 {
		t.Errorf("expected min 2 max 9, got %d %d", summary.Min, summary.Max)
	}
	if summary.BestTile != 8 {
		t.Errorf("expected best tile 8, got %d", summary.BestTile)
	}
	if summary.String() != "avg: 5\nstd: 2\nmin: 2\nmax: 9\n" {
		t.Errorf("unexpected report %q", summary.String())
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	if summary.Runs != 0 || summary.Average != 0 || summary.StdDev != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestRun_PlaysToGameOver(t *testing.T) {
	for _, strategy := range []Strategy{Swirl{}, Random{}} {
		t.Run(strategy.Name(), func(t *testing.T) {
			sim := NewSimulator(smallConfig(), WithSeed(5))
			summary, err := sim.Run(context.Background(), strategy, 4)
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if len(summary.Results) != 4 {
				t.Fatalf("expected 4 results, got %d", len(summary.Results))
			}
			for _, r := range summary.Results {
				if r.Capped {
					t.Errorf("run %d was capped without a move limit", r.Run)
				}
				if r.Score <= 0 || r.Moves == 0 {
					t.Errorf("run %d: unexpected result %+v", r.Run, r)
				}
				if r.Seed != 5+int64(r.Run) {
					t.Errorf("run %d: expected seed %d, got %d", r.Run, 5+int64(r.Run), r.Seed)
				}
			}
			if summary.Strategy != strategy.Name() || summary.Config != "mini" || summary.BoardSize != 3 {
				t.Errorf("unexpected summary metadata: %+v", summary)
			}
		})
	}
}

func TestRun_Reproducible(t *testing.T) {
	a, err := NewSimulator(smallConfig(), WithSeed(77)).Run(context.Background(), Random{}, 3)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	b, err := NewSimulator(smallConfig(), WithSeed(77)).Run(context.Background(), Random{}, 3)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			t.Errorf("run %d differs: %+v vs %+v", i, a.Results[i], b.Results[i])
		}
	}
}

func TestRun_MoveCap(t *testing.T) {
	config := engine.DefaultConfig()
	config.MaxMoves = 3

	summary, err := NewSimulator(config, WithSeed(1)).Run(context.Background(), Swirl{}, 2)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for _, r := range summary.Results {
		if r.Moves != 3 || !r.Capped {
			t.Errorf("expected capped run of 3 moves, got %+v", r)
		}
	}
}

func TestRun_GameOutput(t *testing.T) {
	var out bytes.Buffer
	config := smallConfig()
	config.MaxMoves = 2

	if _, err := NewSimulator(config, WithSeed(2), WithGameOutput(&out)).Run(context.Background(), Swirl{}, 1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "move_down\n") {
		t.Errorf("expected swirl to start with down, got %q", out.String())
	}
	if !strings.Contains(out.String(), "move_left\n") {
		t.Errorf("expected second move left, got %q", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	sim := NewSimulator(nil, WithSeed(1))

	if _, err := sim.Run(context.Background(), Swirl{}, 0); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx, Swirl{}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRun_Recorder(t *testing.T) {
	recorder := &memoryRecorder{}
	sim := NewSimulator(smallConfig(), WithSeed(3), WithRecorder(recorder))

	summary, err := sim.Run(context.Background(), Swirl{}, 2)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(recorder.summaries) != 1 || recorder.summaries[0] != summary {
		t.Fatal("expected the summary to be recorded once")
	}
	if summary.ID != 1 {
		t.Errorf("expected ID 1, got %d", summary.ID)
	}

	failing := &memoryRecorder{err: errors.New("disk full")}
	if _, err := NewSimulator(smallConfig(), WithSeed(3), WithRecorder(failing)).Run(context.Background(), Swirl{}, 1); err == nil {
		t.Error("expected recorder error to surface")
	}
}

func TestRun_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	sim := NewSimulator(smallConfig(), WithSeed(4), WithTracer(tp.Tracer("test")))
	if _, err := sim.Run(context.Background(), Swirl{}, 3); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	names := make(map[string]int)
	for _, span := range recorder.Ended() {
		names[span.Name()]++
	}
	if names["simulate.Run"] != 1 || names["simulate.game"] != 3 {
		t.Errorf("expected 1 run span and 3 game spans, got %v", names)
	}
}
