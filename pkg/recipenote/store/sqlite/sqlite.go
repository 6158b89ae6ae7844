package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/recipenote/pkg/recipenote/internalerr"
	"github.com/cognicore/recipenote/pkg/recipenote/store"
)

// sqliteStore implements the Ledger interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite ledger with WAL mode enabled, creating the schema
// when needed.
func OpenSQLite(ctx context.Context, path string) (store.Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	input_dir TEXT,
	output_dir TEXT,
	successful INTEGER DEFAULT 0,
	failed INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	source TEXT,
	output TEXT,
	title TEXT,
	calories INTEGER,
	protein_grams INTEGER,
	status TEXT NOT NULL,
	error TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS entries_run ON entries(run_id);

CREATE TABLE IF NOT EXISTS entry_tags (
	entry_id TEXT NOT NULL,
	tag TEXT NOT NULL,
	UNIQUE(entry_id, tag),
	FOREIGN KEY(entry_id) REFERENCES entries(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS entry_tags_tag ON entry_tags(tag);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// RecordRun inserts or updates a run
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run id: %w", internalerr.ErrInvalidConfig)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, input_dir, output_dir, successful, failed)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	finished_at=excluded.finished_at,
	input_dir=excluded.input_dir,
	output_dir=excluded.output_dir,
	successful=excluded.successful,
	failed=excluded.failed;
`,
		r.ID,
		formatTime(r.StartedAt),
		formatTime(r.FinishedAt),
		r.InputDir,
		r.OutputDir,
		r.Successful,
		r.Failed,
	)
	return err
}

// GetRun retrieves a run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, started_at, finished_at, input_dir, output_dir, successful, failed
FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, err
}

// Runs lists the most recent runs first
func (s *sqliteStore) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, finished_at, input_dir, output_dir, successful, failed
FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r                  store.Run
		started            string
		finished, in, out  sql.NullString
		successful, failed sql.NullInt64
	)
	if err := sc.Scan(&r.ID, &started, &finished, &in, &out, &successful, &failed); err != nil {
		return store.Run{}, err
	}
	r.StartedAt = parseTime(started)
	r.FinishedAt = parseTime(finished.String)
	r.InputDir = in.String
	r.OutputDir = out.String
	r.Successful = int(successful.Int64)
	r.Failed = int(failed.Int64)
	return r, nil
}

// RecordEntry inserts or replaces an entry and its tags
func (s *sqliteStore) RecordEntry(ctx context.Context, e store.Entry) error {
	if e.ID == "" || e.RunID == "" {
		return fmt.Errorf("entry id and run id: %w", internalerr.ErrInvalidConfig)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO entries (id, run_id, source, output, title, calories, protein_grams, status, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source=excluded.source,
	output=excluded.output,
	title=excluded.title,
	calories=excluded.calories,
	protein_grams=excluded.protein_grams,
	status=excluded.status,
	error=excluded.error;
`,
		e.ID,
		e.RunID,
		e.Source,
		e.Output,
		e.Title,
		nullInt(e.Calories),
		nullInt(e.ProteinGrams),
		e.Status,
		e.Error,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return err
	}

	if err := replaceEntryTags(ctx, tx, e.ID, uniqueStrings(e.Tags)); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceEntryTags(ctx context.Context, tx *sql.Tx, entryID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id=?`, entryID); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entry_tags (entry_id, tag) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, tag := range tags {
		if _, err := stmt.ExecContext(ctx, entryID, tag); err != nil {
			return err
		}
	}
	return nil
}

// Entries lists a run's entries in the order they were recorded
func (s *sqliteStore) Entries(ctx context.Context, runID string) ([]store.Entry, error) {
	return s.queryEntries(ctx, `
SELECT id, run_id, source, output, title, calories, protein_grams, status, error, created_at
FROM entries WHERE run_id = ? ORDER BY created_at, id`, runID)
}

// EntriesByTag lists created entries carrying tag, oldest first
func (s *sqliteStore) EntriesByTag(ctx context.Context, tag string) ([]store.Entry, error) {
	return s.queryEntries(ctx, `
SELECT e.id, e.run_id, e.source, e.output, e.title, e.calories, e.protein_grams, e.status, e.error, e.created_at
FROM entries e
JOIN entry_tags t ON t.entry_id = e.id
WHERE t.tag = ? AND e.status = ?
ORDER BY e.created_at, e.id`, tag, store.StatusCreated)
}

func (s *sqliteStore) queryEntries(ctx context.Context, query string, args ...any) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var (
			e                             store.Entry
			source, output, title, errMsg sql.NullString
			calories, protein             sql.NullInt64
			created                       string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &source, &output, &title, &calories, &protein, &e.Status, &errMsg, &created); err != nil {
			return nil, err
		}
		e.Source = source.String
		e.Output = output.String
		e.Title = title.String
		e.Error = errMsg.String
		e.Calories = intPtr(calories)
		e.ProteinGrams = intPtr(protein)
		e.CreatedAt = parseTime(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range entries {
		tags, err := s.entryTags(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Tags = tags
	}
	return entries, nil
}

func (s *sqliteStore) entryTags(ctx context.Context, entryID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM entry_tags WHERE entry_id = ? ORDER BY tag`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// TagCounts returns how many created notes carry each tag, most used first
func (s *sqliteStore) TagCounts(ctx context.Context) ([]store.TagCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT t.tag, COUNT(*)
FROM entry_tags t
JOIN entries e ON e.id = t.entry_id
WHERE e.status = ?
GROUP BY t.tag
ORDER BY COUNT(*) DESC, t.tag`, store.StatusCreated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []store.TagCount
	for rows.Next() {
		var tc store.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// timeLayout has fixed-width fractions so stored times sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
