package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the history database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseOpenFailed, err)
	}
	// A single connection keeps ":memory:" databases consistent across queries.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrInitializeSchemaFailed, err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL,
		source TEXT NOT NULL,
		base_url TEXT NOT NULL,
		revision TEXT NOT NULL DEFAULT '',
		total_links INTEGER NOT NULL,
		by_type_counts TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a run. A zero CreatedAt is stamped with the current time.
func (s *SQLiteStore) Append(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := run.ByTypeCounts
	if counts == nil {
		counts = map[string]int{}
	}
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("%w: marshal counts: %w", ErrRunAppendFailed, err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO runs (scan_id, source, base_url, revision, total_links, by_type_counts, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		run.ScanID, run.Source, run.BaseURL, run.Revision, run.TotalLinks, string(countsJSON), createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRunAppendFailed, err)
	}

	return nil
}

// List returns up to limit runs, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, scan_id, source, base_url, revision, total_links, by_type_counts, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunQueryFailed, err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var countsJSON string
		var createdAt int64

		if err := rows.Scan(&r.ID, &r.ScanID, &r.Source, &r.BaseURL, &r.Revision, &r.TotalLinks, &countsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrRunQueryFailed, err)
		}
		if err := json.Unmarshal([]byte(countsJSON), &r.ByTypeCounts); err != nil {
			return nil, fmt.Errorf("%w: unmarshal counts: %w", ErrRunQueryFailed, err)
		}
		r.CreatedAt = time.UnixMilli(createdAt)

		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %w", ErrRunQueryFailed, err)
	}

	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
