// Package directory serves the org roster the allocator scores against: the
// product manager, the teams and their members. Reads come from a cached
// snapshot refreshed on a TTL so concurrent allocations never block on the
// underlying source.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/pkg/logger"
	"github.com/teamplan/alloc/pkg/metrics"
)

// ErrLoad reports that the underlying roster source failed.
var ErrLoad = errors.New("failed to load roster")

const defaultTTL = 5 * time.Minute

// Source loads a full org snapshot.
type Source interface {
	Load(ctx context.Context) (model.Org, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (model.Org, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (model.Org, error) { return f(ctx) }

// Directory caches an org snapshot from a Source and refreshes it when the
// TTL lapses. Safe for concurrent use.
type Directory struct {
	src Source
	ttl time.Duration
	now func() time.Time
	log logger.Logger

	mu        sync.RWMutex
	org       model.Org
	loaded    bool
	expiresAt time.Time
}

// Option configures a Directory.
type Option func(*Directory)

// WithTTL sets how long a snapshot is served before the source is consulted
// again. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(d *Directory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		if now != nil {
			d.now = now
		}
	}
}

// New builds a directory over src. The first Org call loads the snapshot.
func New(src Source, opts ...Option) *Directory {
	d := &Directory{
		src: src,
		ttl: defaultTTL,
		now: time.Now,
		log: logger.Named("directory"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Org returns the current snapshot, refreshing it first if it is stale. When
// a refresh fails but an older snapshot exists, the stale snapshot is served
// instead of an error.
func (d *Directory) Org(ctx context.Context) (model.Org, error) {
	d.mu.RLock()
	if d.loaded && d.now().Before(d.expiresAt) {
		org := d.org
		d.mu.RUnlock()
		return org, nil
	}
	d.mu.RUnlock()

	if err := d.Refresh(ctx); err != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.loaded {
			d.log.Warn(ctx, "roster refresh failed, serving stale snapshot", logger.Error(err))
			return d.org, nil
		}
		return model.Org{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.org, nil
}

// Refresh loads a fresh snapshot unconditionally.
func (d *Directory) Refresh(ctx context.Context) error {
	org, err := d.src.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := validate(org); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	d.mu.Lock()
	d.org = org
	d.loaded = true
	d.expiresAt = d.now().Add(d.ttl)
	d.mu.Unlock()

	metrics.RecordDirectoryRefresh()
	metrics.UpdateDirectoryMembers(org.MemberCount())
	d.log.Debug(ctx, "roster refreshed",
		logger.Int("teams", len(org.Teams)),
		logger.Int("members", org.MemberCount()),
	)
	return nil
}

func validate(org model.Org) error {
	if len(org.Teams) == 0 {
		return errors.New("roster has no teams")
	}
	seen := make(map[string]struct{}, len(org.Teams))
	for _, t := range org.Teams {
		if t.Key == "" {
			return errors.New("roster team without key")
		}
		if _, dup := seen[t.Key]; dup {
			return fmt.Errorf("duplicate roster team %q", t.Key)
		}
		seen[t.Key] = struct{}{}
		for _, m := range t.Members {
			if m.ID == "" || m.Name == "" {
				return fmt.Errorf("team %q has a member without id or name", t.Key)
			}
			if m.Availability != "" && !m.Availability.Valid() {
				return fmt.Errorf("member %q has unknown availability %q", m.ID, m.Availability)
			}
		}
	}
	return nil
}
