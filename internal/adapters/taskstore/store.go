// Package taskstore persists allocated subtasks. Persistence is best-effort:
// the allocation result is never blocked or failed by the store.
package taskstore

import (
	"context"
	"time"
)

// PersistedTask is the durable record written for each assigned subtask.
type PersistedTask struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RoleRequired   string    `json:"role_required"`
	Priority       string    `json:"priority"`
	Deadline       time.Time `json:"deadline"`
	EstimatedHours int       `json:"estimated_hours"`
	Status         string    `json:"status"`
	AllocatedTo    string    `json:"allocated_to"`
	Sprint         string    `json:"sprint"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store provides durable access to persisted tasks.
type Store interface {
	// Save writes one task record.
	Save(ctx context.Context, task PersistedTask) error

	// List returns all persisted tasks, newest first.
	List(ctx context.Context) ([]PersistedTask, error)

	// Count returns the number of persisted tasks.
	Count(ctx context.Context) (int, error)

	// Close releases store resources.
	Close() error
}
