package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
)

// Store is an in-memory implementation of store.Ledger, used when no ledger
// file is configured and in tests.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	entries []store.Entry
	byID    map[string]int
}

// New creates a new in-memory ledger.
func New() *Store {
	return &Store{
		runs: make(map[string]store.Run),
		byID: make(map[string]int),
	}
}

// Close implements store.Ledger.
func (s *Store) Close() error { return nil }

// RecordRun inserts or updates a run, keyed by ID.
func (s *Store) RecordRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run id: %w", internalerr.ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.runs[r.ID]; ok && r.StartedAt.IsZero() {
		r.StartedAt = existing.StartedAt
	}
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

// Runs returns the most recent runs first.
func (s *Store) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// RecordEntry inserts or replaces an entry, keyed by ID.
func (s *Store) RecordEntry(ctx context.Context, e store.Entry) error {
	if e.ID == "" || e.RunID == "" {
		return fmt.Errorf("entry id and run id: %w", internalerr.ErrInvalidConfig)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[e.RunID]; !ok {
		return fmt.Errorf("run %s: %w", e.RunID, internalerr.ErrNotFound)
	}

	e = copyEntry(e)
	if i, ok := s.byID[e.ID]; ok {
		e.CreatedAt = s.entries[i].CreatedAt
		s.entries[i] = e
		return nil
	}
	s.byID[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

// Entries returns a run's entries in recording order.
func (s *Store) Entries(ctx context.Context, runID string) ([]store.Entry, error) {
	return s.filter(func(e store.Entry) bool { return e.RunID == runID }), nil
}

// EntriesByTag returns created entries carrying tag.
func (s *Store) EntriesByTag(ctx context.Context, tag string) ([]store.Entry, error) {
	return s.filter(func(e store.Entry) bool {
		return e.Status == store.StatusCreated && containsString(e.Tags, tag)
	}), nil
}

// TagCounts returns tag usage over created entries, most used first.
func (s *Store) TagCounts(ctx context.Context) ([]store.TagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.entries {
		if e.Status != store.StatusCreated {
			continue
		}
		for _, tag := range e.Tags {
			counts[tag]++
		}
	}

	out := make([]store.TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, store.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

func (s *Store) filter(keep func(store.Entry) bool) []store.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Entry
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

func copyEntry(e store.Entry) store.Entry {
	e.Tags = append([]string(nil), e.Tags...)
	if e.Calories != nil {
		v := *e.Calories
		e.Calories = &v
	}
	if e.ProteinGrams != nil {
		v := *e.ProteinGrams
		e.ProteinGrams = &v
	}
	return e
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
