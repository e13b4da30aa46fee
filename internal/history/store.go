// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records every algorithm run in a SQLite processing log.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pkprocessing/pkg/types"
)

const (
	defaultLimit = 20

	// timeLayout has fixed-width fractional seconds so stored times sort
	// lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Entry is one recorded run.
type Entry struct {
	ID          string            `json:"id"`
	Algorithm   string            `json:"algorithm"`
	CommandLine string            `json:"command_line"`
	StartedAt   time.Time         `json:"started_at"`
	Duration    time.Duration     `json:"duration"`
	Status      types.RunStatus   `json:"status"`
	Error       string            `json:"error,omitempty"`
	Outputs     map[string]string `json:"outputs,omitempty"`
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			algorithm TEXT NOT NULL,
			command_line TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			outputs TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e, assigning a new ID when e.ID is empty, and returns the
// stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	outputs, err := json.Marshal(e.Outputs)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding outputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, algorithm, command_line, started_at, duration_ns, status, error, outputs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Algorithm, e.CommandLine, e.StartedAt.UTC().Format(timeLayout),
		int64(e.Duration), string(e.Status), e.Error, string(outputs),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording run %s: %w", e.ID, err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// uses the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, algorithm, command_line, started_at, duration_ns, status, error, outputs
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			startedAt string
			duration  int64
			status    string
			errText   sql.NullString
			outputs   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Algorithm, &e.CommandLine, &startedAt, &duration, &status, &errText, &outputs); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing start time of run %s: %w", e.ID, err)
		}
		e.Duration = time.Duration(duration)
		e.Status = types.RunStatus(status)
		e.Error = errText.String
		if outputs.Valid && outputs.String != "" && outputs.String != "null" {
			if err := json.Unmarshal([]byte(outputs.String), &e.Outputs); err != nil {
				return nil, fmt.Errorf("decoding outputs of run %s: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes all entries and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}
