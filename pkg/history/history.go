// Package history records completed query runs in a SQLite database at
// ~/.fathom/history.db, so past answers can be reviewed without re-paying
// for the API calls.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Run is one completed query against a directory.
type Run struct {
	// ID is a UUID assigned when the run is saved.
	ID string

	// CreatedAt is when the run finished.
	CreatedAt time.Time

	// Root is the absolute path of the explored directory.
	Root string

	// Query is the user's question.
	Query string

	// Answer is the model's final message.
	Answer string

	// Model identifies the model that produced the answer.
	Model string

	// Steps is how many API round trips the run took.
	Steps int

	// PromptTokens and CompletionTokens are summed across all API calls.
	PromptTokens     int
	CompletionTokens int
}

// DB stores runs in a SQLite database.
type DB struct {
	db   *sql.DB
	path string
}

// DefaultPath returns ~/.fathom/history.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".fathom", "history.db"), nil
}

// NewDB creates a DB for the given path. Use ":memory:" for an
// in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	if db.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(db.path), 0750); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait on lock contention instead of failing immediately.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			root TEXT NOT NULL,
			query TEXT NOT NULL,
			answer TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			steps INTEGER NOT NULL DEFAULT 0,
			prompt_tokens INTEGER NOT NULL DEFAULT 0,
			completion_tokens INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`

	_, err := db.db.Exec(schema)
	return err
}

// SaveRun persists a completed run, assigning its ID and timestamp when
// unset.
func (db *DB) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := db.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, root, query, answer, model, steps, prompt_tokens, completion_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.Root,
		run.Query,
		run.Answer,
		run.Model,
		run.Steps,
		run.PromptTokens,
		run.CompletionTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns everything.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `
		SELECT id, created_at, root, query, answer, model, steps, prompt_tokens, completion_tokens
		FROM runs
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	row := db.db.QueryRowContext(ctx, `
		SELECT id, created_at, root, query, answer, model, steps, prompt_tokens, completion_tokens
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(
		&run.ID,
		&createdAt,
		&run.Root,
		&run.Query,
		&run.Answer,
		&run.Model,
		&run.Steps,
		&run.PromptTokens,
		&run.CompletionTokens,
	); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp %q: %w", createdAt, err)
	}
	run.CreatedAt = parsed
	return &run, nil
}
