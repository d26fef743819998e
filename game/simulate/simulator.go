// Package simulate plays complete 2048 games with a fixed strategy and
// summarizes the final scores.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/internal/telemetry"
)

// ErrNoRuns is returned when Run is asked for fewer than one game
var ErrNoRuns = errors.New("runs must be at least 1")

// Result is the outcome of one simulated game
type Result struct {
	Run     int   `json:"run"`
	Seed    int64 `json:"seed"`
	Score   int   `json:"score"`
	Moves   int   `json:"moves"`
	MaxTile int   `json:"max_tile"`
	Capped  bool  `json:"capped,omitempty"` // stopped by max_moves before game over
}

// Summary aggregates the results of one Run call
type Summary struct {
	ID        int64         `json:"id,omitempty"`
	Strategy  string        `json:"strategy"`
	Config    string        `json:"config"`
	BoardSize int           `json:"board_size"`
	Seed      int64         `json:"seed"`
	Runs      int           `json:"runs"`
	Average   float64       `json:"avg"`
	StdDev    float64       `json:"std"`
	Min       int           `json:"min"`
	Max       int           `json:"max"`
	BestTile  int           `json:"best_tile"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results,omitempty"`
}

// String renders the summary the way the simulate command prints it
func (s *Summary) String() string {
	return fmt.Sprintf("avg: %g\nstd: %g\nmin: %d\nmax: %d\n", s.Average, s.StdDev, s.Min, s.Max)
}

// Recorder stores finished summaries and returns their ID
type Recorder interface {
	RecordRun(ctx context.Context, summary *Summary) (int64, error)
}

// Simulator plays games for a configuration
type Simulator struct {
	config   *engine.GameConfig
	seed     int64
	out      io.Writer
	recorder Recorder
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// Option customizes a Simulator
type Option func(*Simulator)

// WithSeed sets the base seed; run i is seeded with seed+i
func WithSeed(seed int64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithGameOutput sends the console text of every game to w
func WithGameOutput(w io.Writer) Option {
	return func(s *Simulator) { s.out = w }
}

// WithRecorder stores each summary after a successful Run
func WithRecorder(r Recorder) Option {
	return func(s *Simulator) { s.recorder = r }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Simulator) { s.tracer = tracer }
}

// NewSimulator creates a simulator. A nil config uses engine.DefaultConfig.
func NewSimulator(config *engine.GameConfig, opts ...Option) *Simulator {
	if config == nil {
		config = engine.DefaultConfig()
	}
	s := &Simulator{
		config: config,
		seed:   time.Now().UnixNano(),
		out:    io.Discard,
		logger: zerolog.Nop(),
		tracer: telemetry.Tracer("simulate"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run plays runs games with strategy and summarizes their final scores
func (s *Simulator) Run(ctx context.Context, strategy Strategy, runs int) (*Summary, error) {
	if runs < 1 {
		return nil, ErrNoRuns
	}

	ctx, span := s.tracer.Start(ctx, "simulate.Run", trace.WithAttributes(
		attribute.String("strategy", strategy.Name()),
		attribute.String("config", s.config.Name),
		attribute.Int("runs", runs),
		attribute.Int64("seed", s.seed),
	))
	defer span.End()

	started := time.Now()
	results := make([]Result, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		results = append(results, s.play(ctx, strategy, i))
	}

	summary := Summarize(results)
	summary.Strategy = strategy.Name()
	summary.Config = s.config.Name
	summary.BoardSize = s.config.BoardSize
	summary.Seed = s.seed
	summary.StartedAt = started
	summary.Duration = time.Since(started)

	span.SetAttributes(
		attribute.Float64("score.avg", summary.Average),
		attribute.Int("score.max", summary.Max),
	)

	s.logger.Info().
		Str("strategy", summary.Strategy).
		Int("runs", summary.Runs).
		Float64("avg", summary.Average).
		Float64("std", summary.StdDev).
		Int("min", summary.Min).
		Int("max", summary.Max).
		Dur("duration", summary.Duration).
		Msg("simulation finished")

	if s.recorder != nil {
		id, err := s.recorder.RecordRun(ctx, summary)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return summary, fmt.Errorf("record run: %w", err)
		}
		summary.ID = id
	}

	return summary, nil
}

// play runs a single game to completion or to the move cap
func (s *Simulator) play(ctx context.Context, strategy Strategy, run int) Result {
	seed := s.seed + int64(run)
	_, span := s.tracer.Start(ctx, "simulate.game", trace.WithAttributes(
		attribute.Int("run", run),
		attribute.Int64("seed", seed),
	))
	defer span.End()

	rng := rand.New(rand.NewSource(seed))
	game := engine.NewGame(s.config.BoardSize, rng, s.out, engine.WithConfig(s.config))

	limit := s.config.MaxMoves
	for n := 0; !game.IsGameOver(); n++ {
		if limit > 0 && n >= limit {
			break
		}
		// directions from a Strategy are always valid
		_ = game.Move(strategy.Next(n, rng))
	}

	result := Result{
		Run:     run,
		Seed:    seed,
		Score:   game.Score(),
		Moves:   game.Moves(),
		MaxTile: game.Board().MaxTile(),
		Capped:  !game.IsGameOver(),
	}
	span.SetAttributes(
		attribute.Int("score", result.Score),
		attribute.Int("moves", result.Moves),
		attribute.Int("max_tile", result.MaxTile),
	)
	s.logger.Debug().Int("run", run).Int("score", result.Score).Int("moves", result.Moves).Msg("game finished")

	return result
}

// Summarize computes mean, population standard deviation, min and max of
// the result scores
func Summarize(results []Result) *Summary {
	summary := &Summary{Runs: len(results), Results: results}
	if len(results) == 0 {
		return summary
	}

	summary.Min = results[0].Score
	summary.Max = results[0].Score
	total := 0
	for _, r := range results {
		total += r.Score
		if r.Score < summary.Min {
			summary.Min = r.Score
		}
		if r.Score > summary.Max {
			summary.Max = r.Score
		}
		if r.MaxTile > summary.BestTile {
			summary.BestTile = r.MaxTile
		}
	}
	summary.Average = float64(total) / float64(len(results))

	var squares float64
	for _, r := range results {
		d := float64(r.Score) - summary.Average
		squares += d * d
	}
	summary.StdDev = math.Sqrt(squares / float64(len(results)))

	return summary
}
