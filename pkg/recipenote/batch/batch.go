// Package batch discovers recipe documents, converts them one at a time and
// writes the notes into a vault directory.
package batch

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/recipenote/pkg/recipenote"
	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
)

// Converter is the per-document pipeline; *recipenote.Converter satisfies it
type Converter interface {
	Convert(ctx context.Context, path string) (recipenote.Note, error)
}

// Runner converts every matching document in a directory
type Runner struct {
	converter Converter
	inputDir  string
	pattern   string
	vault     Vault
	ledger    store.Ledger
	logger    *slog.Logger
	entropy   *ulid.MonotonicEntropy
	now       func() time.Time
}

// Options configures a Runner
type Options struct {
	Converter Converter
	InputDir  string
	Pattern   string
	OutputDir string
	Ledger    store.Ledger // optional
	Logger    *slog.Logger // optional
}

// Summary is the outcome of a run
type Summary struct {
	RunID      string
	Successful int
	Failed     int
	OutputDir  string
	Created    []string
}

// New creates a Runner
func New(opts Options) *Runner {
	r := &Runner{
		converter: opts.Converter,
		inputDir:  opts.InputDir,
		pattern:   opts.Pattern,
		vault:     Vault{Dir: opts.OutputDir},
		ledger:    opts.Ledger,
		logger:    opts.Logger,
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       time.Now,
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Run processes every discovered document in Part order. Per-document
// failures are logged and counted, never returned. Run returns
// internalerr.ErrNoInput, without creating the output directory, when nothing
// matches; it stops early only if ctx is cancelled between documents.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	files, err := Discover(r.inputDir, r.pattern)
	if err != nil {
		return Summary{}, fmt.Errorf("discover: %w", err)
	}
	if len(files) == 0 {
		pattern := filepath.Join(r.inputDir, r.pattern)
		r.logger.Error("no files found matching pattern", "pattern", pattern)
		return Summary{}, fmt.Errorf("%s: %w", pattern, internalerr.ErrNoInput)
	}
	r.logger.Info("found files to process", "count", len(files))

	sum := Summary{RunID: r.newID(), OutputDir: r.vault.Dir}
	run := store.Run{
		ID:        sum.RunID,
		StartedAt: r.now(),
		InputDir:  r.inputDir,
		OutputDir: r.vault.Dir,
	}
	r.recordRun(ctx, run)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			r.finish(ctx, run, sum)
			return sum, err
		}

		entry := r.processOne(ctx, path, sum.RunID)
		if entry.Status == store.StatusCreated {
			sum.Successful++
			sum.Created = append(sum.Created, entry.Output)
		} else {
			sum.Failed++
		}
		r.recordEntry(ctx, entry)
	}

	r.finish(ctx, run, sum)
	r.logger.Info("processing complete", "successful", sum.Successful, "failed", sum.Failed)
	r.logger.Info("markdown files saved", "dir", r.vault.Dir)
	return sum, nil
}

// processOne converts and writes one document. A panic anywhere in the
// pipeline is turned into a failed entry.
func (r *Runner) processOne(ctx context.Context, path, runID string) (entry store.Entry) {
	name := filepath.Base(path)
	entry = store.Entry{
		ID:        r.newID(),
		RunID:     runID,
		Source:    path,
		Status:    store.StatusFailed,
		CreatedAt: r.now(),
	}

	defer func() {
		if p := recover(); p != nil {
			entry.Status = store.StatusFailed
			entry.Output = ""
			entry.Error = fmt.Sprint(p)
			r.logger.Error("error processing document", "file", name, "error", entry.Error)
		}
	}()

	r.logger.Info("processing", "file", name)

	n, err := r.converter.Convert(ctx, path)
	if errors.Is(err, internalerr.ErrNoText) {
		entry.Error = err.Error()
		r.logger.Warn("no text extracted", "file", path)
		return entry
	}
	if err != nil {
		entry.Error = err.Error()
		r.logger.Error("error processing document", "file", path, "error", err)
		return entry
	}

	entry.Title = n.Recipe.Title
	entry.Tags = n.Tags
	entry.Calories = n.Recipe.Calories
	entry.ProteinGrams = n.Recipe.ProteinGrams

	out, err := r.vault.Write(n.Filename, n.Markdown)
	if err != nil {
		entry.Error = err.Error()
		r.logger.Error("error writing note", "file", path, "error", err)
		return entry
	}

	entry.Output = out
	entry.Status = store.StatusCreated
	r.logger.Info("created", "note", filepath.Base(out))
	return entry
}

func (r *Runner) finish(ctx context.Context, run store.Run, sum Summary) {
	run.FinishedAt = r.now()
	run.Successful = sum.Successful
	run.Failed = sum.Failed
	r.recordRun(ctx, run)
}

// Ledger writes are best effort: a broken ledger must not fail the batch.
func (r *Runner) recordRun(ctx context.Context, run store.Run) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		r.logger.Warn("ledger: record run", "run", run.ID, "error", err)
	}
}

func (r *Runner) recordEntry(ctx context.Context, e store.Entry) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.RecordEntry(context.WithoutCancel(ctx), e); err != nil {
		r.logger.Warn("ledger: record entry", "source", e.Source, "error", err)
	}
}

func (r *Runner) newID() string {
	return ulid.MustNew(ulid.Timestamp(r.now()), r.entropy).String()
}
