package taskstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	role_required   TEXT NOT NULL,
	priority        TEXT NOT NULL,
	deadline        TIMESTAMP NOT NULL,
	estimated_hours INTEGER NOT NULL,
	status          TEXT NOT NULL,
	allocated_to    TEXT NOT NULL,
	sprint          TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_sprint ON tasks (sprint);
`

// SQLiteStore persists tasks in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and if needed creates) the database at dsn.
func NewSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	// modernc sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY under the worker pool.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, task PersistedTask) error {
	const q = `INSERT INTO tasks
		(id, title, description, role_required, priority, deadline,
		 estimated_hours, status, allocated_to, sprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		task.ID, task.Title, task.Description, task.RoleRequired, task.Priority,
		task.Deadline.UTC(), task.EstimatedHours, task.Status, task.AllocatedTo,
		task.Sprint, task.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// List implements Store, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]PersistedTask, error) {
	const q = `SELECT id, title, description, role_required, priority, deadline,
		estimated_hours, status, allocated_to, sprint, created_at
		FROM tasks ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrList, err)
	}
	defer rows.Close()

	var out []PersistedTask
	for rows.Next() {
		var t PersistedTask
		var deadline, created time.Time
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.RoleRequired,
			&t.Priority, &deadline, &t.EstimatedHours, &t.Status, &t.AllocatedTo,
			&t.Sprint, &created); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrList, err)
		}
		t.Deadline = deadline
		t.CreatedAt = created
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrList, err)
	}
	return out, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrList, err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }
