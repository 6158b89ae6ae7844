package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/recipenote/pkg/recipenote/note"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
	"github.com/cognicore/recipenote/pkg/recipenote/store/sqlite"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Ledger database path (required)")
		tag     = flag.String("tag", "", "List notes carrying this tag")
		runs    = flag.Bool("runs", false, "List recent runs")
		limit   = flag.Int("limit", 20, "Number of runs to list")
		reindex = flag.String("reindex", "", "Record every note in this vault directory")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	ledger, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open ledger:", err)
	}
	defer ledger.Close()

	switch {
	case *reindex != "":
		run, err := reindexVault(ctx, ledger, *reindex, time.Now())
		if err != nil {
			log.Fatal("Reindex failed:", err)
		}
		fmt.Printf("Recorded %d notes (%d unreadable) as run %s\n", run.Successful, run.Failed, run.ID)
	case *runs:
		err = printRuns(ctx, os.Stdout, ledger, *limit)
	case *tag != "":
		err = printTag(ctx, os.Stdout, ledger, *tag)
	default:
		err = printTagCounts(ctx, os.Stdout, ledger)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func printRuns(ctx context.Context, w io.Writer, ledger store.Ledger, limit int) error {
	runs, err := ledger.Runs(ctx, limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %d created  %d failed  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Successful, r.Failed, r.OutputDir)
	}
	return nil
}

func printTag(ctx context.Context, w io.Writer, ledger store.Ledger, tag string) error {
	entries, err := ledger.EntriesByTag(ctx, strings.ToLower(tag))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "No notes tagged #%s\n", tag)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%-50s  %s\n", e.Title, e.Output)
	}
	return nil
}

func printTagCounts(ctx context.Context, w io.Writer, ledger store.Ledger) error {
	counts, err := ledger.TagCounts(ctx)
	if err != nil {
		return err
	}
	for _, tc := range counts {
		fmt.Fprintf(w, "#%-20s %d\n", tc.Tag, tc.Count)
	}
	return nil
}

// reindexVault records every .md note under dir as an entry of a new run, so
// a vault built before the ledger existed becomes searchable by tag.
func reindexVault(ctx context.Context, ledger store.Ledger, dir string, now time.Time) (store.Run, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+note.Extension))
	if err != nil {
		return store.Run{}, err
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	newID := func() string { return ulid.MustNew(ulid.Timestamp(now), entropy).String() }

	run := store.Run{ID: newID(), StartedAt: now, InputDir: dir, OutputDir: dir}
	if err := ledger.RecordRun(ctx, run); err != nil {
		return run, err
	}

	for _, path := range paths {
		entry := store.Entry{
			ID:        newID(),
			RunID:     run.ID,
			Output:    path,
			Status:    store.StatusFailed,
			CreatedAt: now,
		}

		data, err := os.ReadFile(path)
		if err == nil {
			var sum note.Summary
			sum, err = note.Read(data)
			entry.Title = sum.Title
			entry.Tags = sum.Tags
		}
		if err != nil {
			entry.Error = err.Error()
			run.Failed++
			log.Printf("Failed to read %s: %v", path, err)
		} else {
			entry.Status = store.StatusCreated
			run.Successful++
		}

		if err := ledger.RecordEntry(ctx, entry); err != nil {
			return run, err
		}
	}

	run.FinishedAt = time.Now()
	return run, ledger.RecordRun(ctx, run)
}
