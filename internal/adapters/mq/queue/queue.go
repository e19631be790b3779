// Package queue buffers persistence jobs between allocation runs and the
// store workers. Enqueue never blocks an allocation: when the buffer is full
// the job is dropped and counted, matching the best-effort persistence
// contract.
package queue

import (
	"context"
	"sync"

	"github.com/teamplan/alloc/internal/adapters/taskstore"
	"github.com/teamplan/alloc/pkg/metrics"
)

const defaultCapacity = 4096

// Job is the payload flowing through the queue.
type Job = taskstore.PersistedTask

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. Returns false when the queue is full or closed and
	// the job was dropped.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns the channel workers consume from. It is closed when
	// the queue closes.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of buffered jobs.
	Len(ctx context.Context) int

	// Close stops the queue. Buffered jobs remain consumable.
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int

	mu     sync.RWMutex
	closed bool
}

// Option configures an InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the number of buffered jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdatePersistQueueCapacity(q.capacity)
	metrics.UpdatePersistQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(_ context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		metrics.RecordPersistEnqueueError()
		return false
	}
	select {
	case q.jobs <- j:
		metrics.UpdatePersistQueueSize(len(q.jobs))
		return true
	default:
		metrics.RecordPersistEnqueueError()
		return false
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(context.Context) <-chan Job {
	return q.jobs
}

// Len implements Queue.
func (q *InMemoryQueue) Len(context.Context) int {
	return len(q.jobs)
}

// Close implements Queue. Safe to call once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.jobs)
	return nil
}
