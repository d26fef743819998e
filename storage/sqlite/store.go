// Package sqlite stores simulation run summaries in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wricardo/mcp-training/game2048/game/simulate"
)

// ErrRunNotFound is returned by GetRun for unknown IDs
var ErrRunNotFound = errors.New("run not found")

//go:embed schema.sql
var schema string

// Store persists simulation summaries in SQLite
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the run log at path and creates its tables. ":memory:" opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRun inserts a summary and its per-game results in one transaction
func (s *Store) RecordRun(ctx context.Context, summary *simulate.Summary) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if summary == nil {
		return 0, fmt.Errorf("summary is required")
	}
	if strings.TrimSpace(summary.Strategy) == "" {
		return 0, fmt.Errorf("strategy is required")
	}

	startedAt := summary.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO simulation_runs (
		   strategy, config, board_size, seed, runs,
		   avg_score, std_score, min_score, max_score, best_tile,
		   started_at, duration_ms
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.Strategy,
		summary.Config,
		summary.BoardSize,
		summary.Seed,
		summary.Runs,
		summary.Average,
		summary.StdDev,
		summary.Min,
		summary.Max,
		summary.BestTile,
		toMillis(startedAt),
		summary.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, r := range summary.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO simulation_games (run_id, game, seed, score, moves, max_tile, capped)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, r.Run, r.Seed, r.Score, r.Moves, r.MaxTile, r.Capped,
		); err != nil {
			return 0, fmt.Errorf("insert game %d: %w", r.Run, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

const runColumns = `id, strategy, config, board_size, seed, runs,
	avg_score, std_score, min_score, max_score, best_tile, started_at, duration_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*simulate.Summary, error) {
	var (
		summary    simulate.Summary
		startedAt  int64
		durationMS int64
	)
	if err := row.Scan(
		&summary.ID,
		&summary.Strategy,
		&summary.Config,
		&summary.BoardSize,
		&summary.Seed,
		&summary.Runs,
		&summary.Average,
		&summary.StdDev,
		&summary.Min,
		&summary.Max,
		&summary.BestTile,
		&startedAt,
		&durationMS,
	); err != nil {
		return nil, err
	}
	summary.StartedAt = fromMillis(startedAt)
	summary.Duration = time.Duration(durationMS) * time.Millisecond
	return &summary, nil
}

// ListRuns returns the newest summaries first, without per-game results. A
// non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*simulate.Summary, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+runColumns+` FROM simulation_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var summaries []*simulate.Summary
	for rows.Next() {
		summary, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return summaries, nil
}

// GetRun returns one summary with its per-game results
func (s *Store) GetRun(ctx context.Context, id int64) (*simulate.Summary, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	summary, err := scanRun(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM simulation_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game, seed, score, moves, max_tile, capped
		 FROM simulation_games WHERE run_id = ? ORDER BY game`, id)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r simulate.Result
		if err := rows.Scan(&r.Run, &r.Seed, &r.Score, &r.Moves, &r.MaxTile, &r.Capped); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		summary.Results = append(summary.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}
	return summary, nil
}
