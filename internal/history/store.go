// Package history records every datamine run and its per-source outcomes in
// a SQLite database so operators can see what changed and what failed.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome is the persisted result of one source.
type Outcome struct {
	Source        string
	State         string
	Changed       bool
	ArtifactCount int
	Digest        string
	ErrorKind     string
	ErrorMessage  string
	Duration      time.Duration
}

// Run is one persisted invocation.
type Run struct {
	RunID        string
	Scenario     string
	BuildID      string
	Headline     string
	BuildSkipped bool
	Started      time.Time
	Finished     time.Time
	Outcomes     []Outcome
}

// Count returns how many outcomes ended in state.
func (r Run) Count(state string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// RecordRun stores run and its outcomes in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.RunID) == "" {
		return errors.New("run id required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, scenario, build_id, headline, build_skipped, started_at, finished_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Scenario,
		nullableString(run.BuildID),
		nullableString(run.Headline),
		boolToInt(run.BuildSkipped),
		formatTime(run.Started),
		formatTime(run.Finished),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, o := range run.Outcomes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outcomes (run_id, source, state, changed, artifact_count, digest, error_kind, error_message, duration_ms)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			o.Source,
			o.State,
			boolToInt(o.Changed),
			o.ArtifactCount,
			nullableString(o.Digest),
			nullableString(o.ErrorKind),
			nullableString(o.ErrorMessage),
			o.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert outcome %s: %w", o.Source, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first, with their outcomes.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, scenario, build_id, headline, build_skipped, started_at, finished_at
         FROM runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                     Run
			buildID, headline       sql.NullString
			skipped                 int
			startedText, finishText string
		)
		if err := rows.Scan(&run.RunID, &run.Scenario, &buildID, &headline, &skipped, &startedText, &finishText); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.BuildID = buildID.String
		run.Headline = headline.String
		run.BuildSkipped = skipped != 0
		run.Started = parseTime(startedText)
		run.Finished = parseTime(finishText)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		outcomes, err := s.Outcomes(ctx, runs[i].RunID)
		if err != nil {
			return nil, err
		}
		runs[i].Outcomes = outcomes
	}
	return runs, nil
}

// Outcomes returns the outcomes of one run sorted by source.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, state, changed, artifact_count, digest, error_kind, error_message, duration_ms
         FROM outcomes WHERE run_id = ? ORDER BY source`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var (
			o                     Outcome
			changed               int
			digest, kind, message sql.NullString
			durationMS            int64
		)
		if err := rows.Scan(&o.Source, &o.State, &changed, &o.ArtifactCount, &digest, &kind, &message, &durationMS); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Changed = changed != 0
		o.Digest = digest.String
		o.ErrorKind = kind.String
		o.ErrorMessage = message.String
		o.Duration = time.Duration(durationMS) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// Prune deletes runs that started before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
