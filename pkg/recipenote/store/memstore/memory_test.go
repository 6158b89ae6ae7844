package memstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
)

var _ store.Ledger = (*Store)(nil)

func TestRunUpsertKeepsStart(t *testing.T) {
	ctx := context.Background()
	s := New()

	started := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	if err := s.RecordRun(ctx, store.Run{ID: "r1", StartedAt: started}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := s.RecordRun(ctx, store.Run{ID: "r1", Successful: 2}); err != nil {
		t.Fatalf("RecordRun update: %v", err)
	}

	got, err := s.GetRun(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !got.StartedAt.Equal(started) || got.Successful != 2 {
		t.Errorf("GetRun = %+v", got)
	}

	if _, err := s.GetRun(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunsLimit(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		s.RecordRun(ctx, store.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	runs, _ := s.Runs(ctx, 2)
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("Runs = %+v, want c then b", runs)
	}
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.RecordEntry(ctx, store.Entry{ID: "e0", RunID: "ghost"}); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown run, got %v", err)
	}

	s.RecordRun(ctx, store.Run{ID: "r1", StartedAt: time.Now()})
	cal := 420
	records := []store.Entry{
		{ID: "e1", RunID: "r1", Title: "Pizza", Tags: []string{"pizza", "dinner"}, Calories: &cal, Status: store.StatusCreated},
		{ID: "e2", RunID: "r1", Title: "Flatbread", Tags: []string{"pizza"}, Status: store.StatusCreated},
		{ID: "e3", RunID: "r1", Tags: []string{"pizza"}, Status: store.StatusFailed},
	}
	for _, e := range records {
		if err := s.RecordEntry(ctx, e); err != nil {
			t.Fatalf("RecordEntry %s: %v", e.ID, err)
		}
	}

	// Mutating caller-owned data must not reach the store
	cal = 1
	records[0].Tags[0] = "changed"

	got, _ := s.Entries(ctx, "r1")
	if len(got) != 3 {
		t.Fatalf("Entries returned %d, want 3", len(got))
	}
	if *got[0].Calories != 420 || got[0].Tags[0] != "pizza" {
		t.Errorf("entry aliased caller data: %+v", got[0])
	}

	byTag, _ := s.EntriesByTag(ctx, "pizza")
	if len(byTag) != 2 {
		t.Errorf("EntriesByTag = %+v, want the two created entries", byTag)
	}

	counts, _ := s.TagCounts(ctx)
	want := []store.TagCount{{Tag: "pizza", Count: 2}, {Tag: "dinner", Count: 1}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("TagCounts = %+v, want %+v", counts, want)
	}
}

func TestRecordEntryReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.RecordRun(ctx, store.Run{ID: "r1", StartedAt: time.Now()})

	created := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s.RecordEntry(ctx, store.Entry{ID: "e1", RunID: "r1", Status: store.StatusFailed, CreatedAt: created})
	s.RecordEntry(ctx, store.Entry{ID: "e1", RunID: "r1", Status: store.StatusCreated, CreatedAt: time.Now()})

	got, _ := s.Entries(ctx, "r1")
	if len(got) != 1 || got[0].Status != store.StatusCreated || !got[0].CreatedAt.Equal(created) {
		t.Errorf("Entries = %+v", got)
	}
}
