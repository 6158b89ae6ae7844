package store

import (
	"context"
	"time"
)

// Ledger records every conversion run and the outcome of each document
type Ledger interface {
	Close() error

	// Runs
	RecordRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	Runs(ctx context.Context, limit int) ([]Run, error)

	// Entries
	RecordEntry(ctx context.Context, e Entry) error
	Entries(ctx context.Context, runID string) ([]Entry, error)
	EntriesByTag(ctx context.Context, tag string) ([]Entry, error)
	TagCounts(ctx context.Context) ([]TagCount, error)
}

// Entry statuses
const (
	StatusCreated = "created"
	StatusFailed  = "failed"
)

// Run summarizes one batch invocation. RecordRun upserts by ID, so a run is
// recorded at start and again with its final counts.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	OutputDir  string
	Successful int
	Failed     int
}

// Entry is the outcome of one source document
type Entry struct {
	ID           string
	RunID        string
	Source       string
	Output       string
	Title        string
	Tags         []string
	Calories     *int
	ProteinGrams *int
	Status       string
	Error        string
	CreatedAt    time.Time
}

// TagCount is the number of created notes carrying a tag
type TagCount struct {
	Tag   string
	Count int
}
