// Package history records completed extraction runs in a SQLite database
// so past runs can be listed without re-scanning logs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	log_file       TEXT NOT NULL,
	chat_id        TEXT NOT NULL,
	action_key     TEXT NOT NULL,
	request_files  INTEGER NOT NULL,
	response_files INTEGER NOT NULL,
	output_dir     TEXT NOT NULL,
	created_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is one recorded extraction run.
type Run struct {
	ID            string
	LogFile       string
	ChatID        string
	ActionKey     string
	RequestFiles  int
	ResponseFiles int
	OutputDir     string
	CreatedAt     time.Time
}

// Store is a handle on the run history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path and
// ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a completed run. A missing ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, log_file, chat_id, action_key, request_files, response_files, output_dir, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.LogFile, run.ChatID, run.ActionKey,
		run.RequestFiles, run.ResponseFiles, run.OutputDir, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, log_file, chat_id, action_key, request_files, response_files, output_dir, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.LogFile, &r.ChatID, &r.ActionKey,
			&r.RequestFiles, &r.ResponseFiles, &r.OutputDir, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}
