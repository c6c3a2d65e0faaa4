// Package journal persists test runs and per-item results to a local SQLite
// database, giving the fixture an audit trail of every board that crossed
// the bench.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Journal wraps the results database.
type Journal struct {
	db *sql.DB
}

// Result is one recorded item outcome.
type Result struct {
	UIID    int    `json:"ui_id"`
	Group   string `json:"group"`
	Dev     int    `json:"dev"`
	OK      bool   `json:"ok"`
	Raw     string `json:"raw"`
	Display string `json:"display"`
}

// RunSummary describes one recorded test run.
type RunSummary struct {
	ID         string     `json:"id"`
	Board      string     `json:"board"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Results    int        `json:"results"`
	Failures   int        `json:"failures"`
}

// Open opens (and creates if needed) the journal database at path and
// ensures required tables exist.
func Open(ctx context.Context, path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS test_run (
  id          TEXT PRIMARY KEY,
  board       TEXT NOT NULL,
  started_at  TEXT NOT NULL,
  finished_at TEXT
);`,
		`CREATE TABLE IF NOT EXISTS test_result (
  run_id     TEXT NOT NULL REFERENCES test_run(id),
  ui_id      INTEGER NOT NULL,
  grp        TEXT NOT NULL,
  dev        INTEGER NOT NULL,
  ok         INTEGER NOT NULL,
  raw        TEXT NOT NULL,
  display    TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS test_result_run_idx ON test_result(run_id);`,
		`CREATE INDEX IF NOT EXISTS test_run_started_idx ON test_run(started_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap journal: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a test run and returns its id.
func (j *Journal) BeginRun(ctx context.Context, board string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO test_run (id, board, started_at) VALUES (?, ?, ?)`,
		id, board, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordResult appends one item result to a run.
func (j *Journal) RecordResult(ctx context.Context, runID string, r Result) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO test_result (run_id, ui_id, grp, dev, ok, raw, display, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.UIID, r.Group, r.Dev, boolToInt(r.OK), r.Raw, r.Display,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// FinishRun marks a run's init sweep as complete.
func (j *Journal) FinishRun(ctx context.Context, runID string) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE test_run SET finished_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first, with result counts.
func (j *Journal) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT r.id, r.board, r.started_at, r.finished_at,
		        COUNT(t.run_id), COALESCE(SUM(CASE WHEN t.ok = 0 THEN 1 ELSE 0 END), 0)
		 FROM test_run r
		 LEFT JOIN test_result t ON t.run_id = r.id
		 GROUP BY r.id
		 ORDER BY r.started_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started string
		var finished sql.NullString
		if err := rows.Scan(&s.ID, &s.Board, &started, &finished, &s.Results, &s.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			s.StartedAt = t
		}
		if finished.Valid {
			if t, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
				s.FinishedAt = &t
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Results returns the recorded item results for a run in insertion order.
func (j *Journal) Results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT ui_id, grp, dev, ok, raw, display
		 FROM test_result WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("run results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var ok int
		if err := rows.Scan(&r.UIID, &r.Group, &r.Dev, &ok, &r.Raw, &r.Display); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.OK = ok != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
