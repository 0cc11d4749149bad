// Package history persists completed simulator runs in SQLite so a histogram
// can be looked up and replayed from its recorded seed.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"qtermlab/history/migrations"
)

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// Run is one recorded execution.
type Run struct {
	ID         string
	Name       string // source file name, or "editor" for TUI runs
	Program    string // canonical program text
	Shots      int
	Seed       int64
	QubitCount int
	Histogram  []int
	CreatedAt  time.Time
}

// Store is a SQLite-backed run log. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens or creates the database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts run and returns it with ID and CreatedAt filled in when they
// were empty.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	if run.Shots < 1 {
		return Run{}, fmt.Errorf("shots must be positive, got %d", run.Shots)
	}
	if len(run.Histogram) == 0 {
		return Run{}, fmt.Errorf("histogram is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = fromMillis(toMillis(run.CreatedAt))

	hist, err := json.Marshal(run.Histogram)
	if err != nil {
		return Run{}, fmt.Errorf("encode histogram: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name, program, shots, seed, qubit_count, histogram, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Name, run.Program, run.Shots, run.Seed, run.QubitCount, string(hist), toMillis(run.CreatedAt),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, program, shots, seed, qubit_count, histogram, created_at
		   FROM runs
		  WHERE id = ?`,
		strings.TrimSpace(id),
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, program, shots, seed, qubit_count, histogram, created_at
		   FROM runs
		  ORDER BY created_at DESC, id ASC
		  LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		hist      string
		createdAt int64
	)
	if err := sc.Scan(&run.ID, &run.Name, &run.Program, &run.Shots, &run.Seed, &run.QubitCount, &hist, &createdAt); err != nil {
		return Run{}, err
	}
	if err := json.Unmarshal([]byte(hist), &run.Histogram); err != nil {
		return Run{}, fmt.Errorf("decode histogram: %w", err)
	}
	run.CreatedAt = fromMillis(createdAt)
	return run, nil
}
