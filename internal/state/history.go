// Package state persists a run history in SQLite so operators can inspect
// past transforms of the tree.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one completed (or failed) build run.
type RunRecord struct {
	BuildID        string
	Started        time.Time
	Finished       time.Time
	Documents      int
	Stubs          int
	SitemapEntries int
	Outcome        string
}

// Store is a SQLite-backed run-history store.
// Use ":memory:" for an in-memory database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		stubs INTEGER NOT NULL,
		sitemap_entries INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun appends one run to the history.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (build_id, started, finished, documents, stubs, sitemap_entries, outcome) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.BuildID, rec.Started.Unix(), rec.Finished.Unix(), rec.Documents, rec.Stubs, rec.SitemapEntries, rec.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, started, finished, documents, stubs, sitemap_entries, outcome FROM runs ORDER BY started DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, finished int64
		if err := rows.Scan(&rec.BuildID, &started, &finished, &rec.Documents, &rec.Stubs, &rec.SitemapEntries, &rec.Outcome); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		rec.Started = time.Unix(started, 0).UTC()
		rec.Finished = time.Unix(finished, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
