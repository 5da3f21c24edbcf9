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

	"storyreel/internal/services"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one row of the ledger.
type Run struct {
	ID           string
	StoryTitle   string
	Status       Status
	Stage        string
	OutputPath   string
	ErrorKind    string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Elapsed is the run's wall time, measured to now while it is running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome closes a run. A nil Err marks it completed.
type Outcome struct {
	Stage      string
	OutputPath string
	Err        error
}

// Store manages the run ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
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

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin inserts a running entry for runID.
func (s *Store) Begin(ctx context.Context, runID, storyTitle string) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("history: run id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(ctx,
		`INSERT INTO runs (run_id, story_title, status, started_at) VALUES (?, ?, ?, ?)`,
		runID, storyTitle, StatusRunning, now,
	)
}

// SetStage records the stage a running entry has reached.
func (s *Store) SetStage(ctx context.Context, runID, stage string) error {
	return s.execWithRetry(ctx, `UPDATE runs SET stage = ? WHERE run_id = ? AND status = ?`, stage, runID, StatusRunning)
}

// Finish closes a run with its outcome.
func (s *Store) Finish(ctx context.Context, runID string, outcome Outcome) error {
	status := StatusCompleted
	var kind, message any
	if outcome.Err != nil {
		status = StatusFailed
		kind = services.Kind(outcome.Err)
		message = outcome.Err.Error()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.execWithRetry(ctx,
		`UPDATE runs
         SET status = ?, stage = COALESCE(?, stage), output_path = ?, error_kind = ?, error_message = ?, finished_at = ?
         WHERE run_id = ?`,
		status, nullableString(outcome.Stage), nullableString(outcome.OutputPath), kind, message, now, runID,
	)
}

const runColumns = "run_id, story_title, status, stage, output_path, error_kind, error_message, started_at, finished_at"

// Get returns the run with runID, or nil when there is none.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Recent lists up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		stage       sql.NullString
		outputPath  sql.NullString
		errorKind   sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.StoryTitle, &status, &stage, &outputPath, &errorKind, &errorMsg, &startedRaw, &finishedRaw); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.Stage = stage.String
	run.OutputPath = outputPath.String
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMsg.String
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	return &run, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
