package taskstore

import (
	"context"
	"sync"
)

// MemoryStore keeps persisted tasks in memory. It backs the default
// configuration and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []PersistedTask
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, task PersistedTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, task)
	return nil
}

// List implements Store, newest first.
func (s *MemoryStore) List(_ context.Context) ([]PersistedTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PersistedTask, len(s.tasks))
	for i, t := range s.tasks {
		out[len(s.tasks)-1-i] = t
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
