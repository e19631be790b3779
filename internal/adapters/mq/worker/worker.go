// Package worker drains the persistence queue into the task store. Each job
// is isolated: a failed save is logged and counted, never retried into the
// path of other jobs and never surfaced to the allocation that produced it.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/teamplan/alloc/internal/adapters/mq/queue"
	"github.com/teamplan/alloc/internal/adapters/taskstore"
	"github.com/teamplan/alloc/pkg/logger"
	"github.com/teamplan/alloc/pkg/metrics"
)

const (
	defaultSaveTimeout  = 5 * time.Second
	poolShutdownTimeout = 30 * time.Second
)

// Jobs is the read side of the persistence queue.
type Jobs interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Saver is the subset of the task store workers need.
type Saver interface {
	Save(ctx context.Context, task taskstore.PersistedTask) error
}

// Worker drains jobs until its context is cancelled or the queue closes.
type Worker struct {
	jobs        Jobs
	store       Saver
	saveTimeout time.Duration
	log         logger.Logger

	done chan struct{}
}

// Option configures a Worker.
type Option func(*Worker)

// WithSaveTimeout bounds each store write.
func WithSaveTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.saveTimeout = d
		}
	}
}

// New creates a worker named for logging.
func New(name string, jobs Jobs, store Saver, opts ...Option) *Worker {
	w := &Worker{
		jobs:        jobs,
		store:       store,
		saveTimeout: defaultSaveTimeout,
		log:         logger.Named("persist." + name),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes jobs until ctx is done or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.jobs.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.save(ctx, job)
		}
	}
}

func (w *Worker) save(ctx context.Context, job queue.Job) {
	start := time.Now()
	saveCtx, cancel := context.WithTimeout(ctx, w.saveTimeout)
	defer cancel()

	if err := w.store.Save(saveCtx, job); err != nil {
		metrics.RecordPersistenceError()
		w.log.Error(ctx, "task save failed",
			logger.String("task_id", job.ID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordTaskPersisted()
	metrics.RecordPersistLatency(float64(time.Since(start).Milliseconds()))
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     logger.Logger
}

// NewPool sizes a pool; count <= 0 means one worker per CPU.
func NewPool(jobs Jobs, store Saver, count int, opts ...Option) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	p := &Pool{log: logger.Named("persist")}
	for i := range count {
		p.workers = append(p.workers, New("worker-"+strconv.Itoa(i), jobs, store, opts...))
	}
	return p
}

// Start launches every worker. It returns immediately.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	metrics.UpdatePersistWorkers(len(p.workers))
	for _, w := range p.workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
	p.log.Info(ctx, "persistence workers started", logger.Int("count", len(p.workers)))
}

// Stop waits for in-flight jobs, then cancels stragglers.
func (p *Pool) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timeout := time.NewTimer(poolShutdownTimeout)
	defer timeout.Stop()

	select {
	case <-done:
		p.cancel()
	case <-ctx.Done():
		p.cancel()
		return fmt.Errorf("persistence pool shutdown: %w", ctx.Err())
	case <-timeout.C:
		p.cancel()
		return fmt.Errorf("persistence pool shutdown timed out after %s", poolShutdownTimeout)
	}
	metrics.UpdatePersistWorkers(0)
	return nil
}
