package service

import (
	"context"

	"github.com/teamplan/alloc/pkg/logger"
	"github.com/teamplan/alloc/pkg/metrics"
)

// Stream is the Streaming Presenter: it runs the same pipeline as Allocate
// but yields one event per completed unit. The returned channel always ends
// with a terminal event (allocation_complete or allocation_error) unless the
// consumer cancels ctx, in which case production stops immediately and the
// channel closes.
func (s *Service) Stream(ctx context.Context, req Request) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)
		metrics.UpdateActiveStreams(1)
		defer metrics.UpdateActiveStreams(-1)

		emit := func(e Event) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- e:
				metrics.RecordStreamEvent(string(e.Type))
				return true
			case <-ctx.Done():
				return false
			}
		}

		if err := validateRequest(req); err != nil {
			emit(Event{Type: EventAllocationError, Error: err.Error()})
			return
		}

		if _, err := s.run(ctx, req, emit); err != nil {
			if ctx.Err() != nil {
				s.log.Debug(ctx, "stream cancelled by consumer")
				return
			}
			s.log.Error(ctx, "streamed allocation failed", logger.Error(err))
			emit(Event{Type: EventAllocationError, Error: err.Error()})
		}
	}()

	return out
}
