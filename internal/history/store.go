// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of conversion attempts in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/convert-to-markdown/pkg/types"
)

const defaultLimit = 20

// timeLayout is fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the database location under the user's state
// directory: $XDG_STATE_HOME/convert-to-markdown/history.db, falling back to
// ~/.local/state.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "convert-to-markdown", types.DefaultHistoryFileName), nil
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
		`CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT,
			backend TEXT,
			input_bytes INTEGER,
			output_bytes INTEGER,
			chars INTEGER,
			lines INTEGER,
			duration_ms INTEGER,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_started_at ON conversions(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Add inserts rec. An empty ID is replaced by a new UUID, which is returned.
func (s *Store) Add(ctx context.Context, rec types.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
			(id, started_at, input, output, backend, input_bytes, output_bytes, chars, lines, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UTC().Format(timeLayout), rec.Input, rec.Output, rec.Backend,
		rec.InputBytes, rec.OutputBytes, rec.Chars, rec.Lines, rec.Duration.Milliseconds(),
		string(rec.Status), rec.Error,
	)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return rec.ID, nil
}

// Recent returns up to limit records, newest first. limit <= 0 selects 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input, output, backend, input_bytes, output_bytes,
			chars, lines, duration_ms, status, error
		 FROM conversions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var (
			rec        types.Record
			startedAt  string
			output     sql.NullString
			backend    sql.NullString
			errText    sql.NullString
			durationMS int64
			status     string
		)
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Input, &output, &backend,
			&rec.InputBytes, &rec.OutputBytes, &rec.Chars, &rec.Lines,
			&durationMS, &status, &errText); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
		}
		rec.Output = output.String
		rec.Backend = backend.String
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Status = types.ConversionStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}
