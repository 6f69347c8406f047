// Package history records completed scan runs so past results can be listed
// without re-reading the report files.
package history

import (
	"context"
	"time"
)

// Run is one completed scan as persisted in the history store.
type Run struct {
	ID           int64
	ScanID       string
	Source       string
	BaseURL      string
	Revision     string // Git commit of the source, empty outside a repository
	TotalLinks   int
	ByTypeCounts map[string]int
	CreatedAt    time.Time
}

// Store persists scan runs.
type Store interface {
	Append(ctx context.Context, run Run) error
	List(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
