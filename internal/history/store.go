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

// Run is one recorded encode attempt.
type Run struct {
	ID         int64
	RunID      string
	Input      string
	Output     string
	Mode       string
	Status     string
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Completed reports whether the run finished successfully.
func (r Run) Completed() bool {
	return r.Status == "completed"
}

// Duration returns the wall-clock time of a finished run, or 0 while
// the run is still open.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "0001_runs",
		sql: `CREATE TABLE IF NOT EXISTS runs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            run_id TEXT NOT NULL,
            input TEXT NOT NULL,
            output TEXT NOT NULL,
            mode TEXT NOT NULL,
            status TEXT NOT NULL,
            detail TEXT,
            started_at TEXT NOT NULL,
            finished_at TEXT
        );
        CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	},
}

// Open initializes or connects to the run database and applies
// migrations. The parent directory is created when missing.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
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
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
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

func (s *Store) applyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, migration := range migrations {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", migration.version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, migration.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", migration.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", migration.version); err != nil {
			return fmt.Errorf("record migration %s: %w", migration.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// Begin inserts a new open run and returns its row identifier.
func (s *Store) Begin(ctx context.Context, runID, input, output, mode string) (int64, error) {
	if strings.TrimSpace(runID) == "" {
		return 0, errors.New("history: empty run id")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, input, output, mode, status, started_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		input,
		output,
		mode,
		"running",
		timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Finish closes an open run with the given status and optional detail.
func (s *Store) Finish(ctx context.Context, id int64, status, detail string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, detail = ?, finished_at = ? WHERE id = ?`,
		status,
		nullableString(detail),
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: no run with id %d", id)
	}
	return nil
}

// Recent returns the most recent runs, newest first. A non-positive
// limit defaults to 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, input, output, mode, status, detail, started_at, finished_at
         FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// CompletedOutputs returns the output paths of all successfully
// finished runs. Bulk mode uses this to skip already-encoded files.
func (s *Store) CompletedOutputs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT output FROM runs WHERE status = 'completed'`)
	if err != nil {
		return nil, fmt.Errorf("query completed outputs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	outputs := make(map[string]struct{})
	for rows.Next() {
		var output string
		if err := rows.Scan(&output); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		outputs[output] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return outputs, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run        Run
		detail     sql.NullString
		startedAt  string
		finishedAt sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.RunID, &run.Input, &run.Output, &run.Mode, &run.Status, &detail, &startedAt, &finishedAt); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Detail = detail.String

	parsed, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = parsed

	if finishedAt.Valid && finishedAt.String != "" {
		parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = parsed
	}
	return run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
