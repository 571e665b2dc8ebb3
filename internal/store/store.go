// Package store persists transform run history. History is
// best-effort: a store that fails to open or write never blocks a
// transform.
package store

import (
	"context"
	"time"
)

// Run is one recorded transform invocation.
type Run struct {
	ID           string    `json:"id"`
	InputPath    string    `json:"input_path"`
	TargetCounty string    `json:"target_county"`
	Zone         string    `json:"zone"`
	RowsIn       int       `json:"rows_in"`
	RowsKept     int       `json:"rows_kept"`
	RowsDropped  int       `json:"rows_dropped"`
	AutoDetect   bool      `json:"auto_detect"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store records and lists transform runs.
type Store interface {
	RecordRun(ctx context.Context, run Run) (string, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
