package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
)

func openTestLedger(t *testing.T) store.Ledger {
	t.Helper()
	ledger, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func intp(n int) *int { return &n }

// TestSchemaCreationIdempotent tests that running initSchema multiple times is safe
func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 3 { // runs, entries, entry_tags
		t.Errorf("Expected 3 tables, got %d", count)
	}
}

func TestRunUpsert(t *testing.T) {
	ctx := context.Background()
	ledger := openTestLedger(t)

	started := time.Date(2026, 1, 5, 9, 0, 0, 123, time.UTC)
	run := store.Run{ID: "run-1", StartedAt: started, InputDir: "in", OutputDir: "out"}
	if err := ledger.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	run.FinishedAt = started.Add(time.Minute)
	run.Successful, run.Failed = 3, 1
	if err := ledger.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun update: %v", err)
	}

	got, err := ledger.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !reflect.DeepEqual(got, run) {
		t.Errorf("GetRun = %+v, want %+v", got, run)
	}

	if _, err := ledger.GetRun(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := ledger.RecordRun(ctx, store.Run{}); err == nil {
		t.Error("Should reject a run without ID")
	}
}

func TestRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	ledger := openTestLedger(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		// b has more fractional digits than c; ordering must still hold
		started := base.Add(time.Duration(i) * time.Second)
		if id == "b" {
			started = started.Add(999 * time.Millisecond)
		}
		if err := ledger.RecordRun(ctx, store.Run{ID: id, StartedAt: started}); err != nil {
			t.Fatalf("RecordRun %s: %v", id, err)
		}
	}

	runs, err := ledger.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("Runs = %+v, want c then b", runs)
	}
}

func TestEntriesAndTags(t *testing.T) {
	ctx := context.Background()
	ledger := openTestLedger(t)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	if err := ledger.RecordRun(ctx, store.Run{ID: "r1", StartedAt: now}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	entries := []store.Entry{
		{
			ID: "e1", RunID: "r1", Source: "Part1.pdf", Output: "out/Burrito.md", Title: "Burrito",
			Tags: []string{"turkey", "breakfast", "turkey"}, Calories: intp(350), ProteinGrams: intp(28),
			Status: store.StatusCreated, CreatedAt: now,
		},
		{
			ID: "e2", RunID: "r1", Source: "Part2.pdf", Output: "out/Bagel.md", Title: "Bagel",
			Tags: []string{"breakfast", "bagel"}, Status: store.StatusCreated, CreatedAt: now.Add(time.Second),
		},
		{
			ID: "e3", RunID: "r1", Source: "Part3.pdf", Status: store.StatusFailed, Error: "no text",
			Tags: []string{"breakfast"}, CreatedAt: now.Add(2 * time.Second),
		},
	}
	for _, e := range entries {
		if err := ledger.RecordEntry(ctx, e); err != nil {
			t.Fatalf("RecordEntry %s: %v", e.ID, err)
		}
	}

	got, err := ledger.Entries(ctx, "r1")
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Entries returned %d, want 3", len(got))
	}
	if !reflect.DeepEqual(got[0].Tags, []string{"breakfast", "turkey"}) {
		t.Errorf("tags not deduplicated: %v", got[0].Tags)
	}
	if got[0].Calories == nil || *got[0].Calories != 350 || *got[0].ProteinGrams != 28 {
		t.Errorf("nutrition lost: %+v", got[0])
	}
	if got[1].Calories != nil || got[1].ProteinGrams != nil {
		t.Errorf("absent nutrition should stay nil: %+v", got[1])
	}
	if got[2].Error != "no text" || got[2].Status != store.StatusFailed {
		t.Errorf("failed entry = %+v", got[2])
	}

	byTag, err := ledger.EntriesByTag(ctx, "breakfast")
	if err != nil {
		t.Fatalf("EntriesByTag: %v", err)
	}
	if len(byTag) != 2 || byTag[0].ID != "e1" || byTag[1].ID != "e2" {
		t.Errorf("EntriesByTag = %+v, want e1, e2", byTag)
	}

	counts, err := ledger.TagCounts(ctx)
	if err != nil {
		t.Fatalf("TagCounts: %v", err)
	}
	want := []store.TagCount{{Tag: "breakfast", Count: 2}, {Tag: "bagel", Count: 1}, {Tag: "turkey", Count: 1}}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("TagCounts = %+v, want %+v", counts, want)
	}
}

func TestRecordEntryReplacesTags(t *testing.T) {
	ctx := context.Background()
	ledger := openTestLedger(t)

	if err := ledger.RecordRun(ctx, store.Run{ID: "r1", StartedAt: time.Now()}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	e := store.Entry{ID: "e1", RunID: "r1", Tags: []string{"pizza"}, Status: store.StatusCreated, CreatedAt: time.Now()}
	if err := ledger.RecordEntry(ctx, e); err != nil {
		t.Fatalf("RecordEntry: %v", err)
	}
	e.Tags = []string{"salad"}
	if err := ledger.RecordEntry(ctx, e); err != nil {
		t.Fatalf("RecordEntry again: %v", err)
	}

	if got, _ := ledger.EntriesByTag(ctx, "pizza"); len(got) != 0 {
		t.Errorf("stale tag kept: %+v", got)
	}
	if got, _ := ledger.EntriesByTag(ctx, "salad"); len(got) != 1 {
		t.Errorf("EntriesByTag(salad) = %+v", got)
	}
}

func TestRecordEntryRequiresRun(t *testing.T) {
	ctx := context.Background()
	ledger := openTestLedger(t)

	err := ledger.RecordEntry(ctx, store.Entry{ID: "e1", RunID: "ghost", Status: store.StatusCreated, CreatedAt: time.Now()})
	if err == nil {
		t.Error("Should reject an entry for an unknown run")
	}
	if err := ledger.RecordEntry(ctx, store.Entry{RunID: "r1"}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	ledger, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := ledger.RecordRun(ctx, store.Run{ID: "r1", StartedAt: time.Now(), Successful: 4}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	ledger.Close()

	ledger, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ledger.Close()

	run, err := ledger.GetRun(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Successful != 4 {
		t.Errorf("Successful = %d, want 4", run.Successful)
	}
}
