// Package history persists the outcome of every maintenance operation so
// `frigatectl history` can answer what ran, when, and how it ended.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"frigatectl/internal/runner"
)

// Entry is one journaled invocation.
type Entry struct {
	ID         string
	Kind       string
	State      string
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store manages the journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS operations (
    id          TEXT PRIMARY KEY,
    kind        TEXT NOT NULL,
    state       TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Record implements runner.Journal.
func (s *Store) Record(ctx context.Context, rec runner.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO operations (id, kind, state, detail, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Kind,
		rec.State.String(),
		rec.Detail,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert operation record: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, state, detail, started_at, finished_at
              FROM operations ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var started, finished string
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.State, &entry.Detail, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		entry.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		entry.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation rows: %w", err)
	}
	return entries, nil
}
