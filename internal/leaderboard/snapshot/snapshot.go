// Package snapshot holds the bundle currently on display.
//
// A snapshot is immutable. Reloads build a new one and swap it in whole, so
// readers never observe a half-loaded bundle. A failed reload keeps whatever
// was on display before; with nothing loaded yet, readers see an empty bundle.
package snapshot

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/provider"
	"github.com/louisbranch/benchboard/internal/platform/timeouts"
)

// ErrClosed reports a load that completed after the store was closed.
var ErrClosed = errors.New("snapshot store closed")

// Snapshot is one loaded bundle.
type Snapshot struct {
	Bundle   bundle.Bundle
	Version  uint64
	LoadedAt time.Time
}

// Token returns a freshness token for cache-busting URLs.
func (s Snapshot) Token() string {
	if s.LoadedAt.IsZero() {
		return strconv.FormatUint(s.Version, 10)
	}
	return strconv.FormatUint(s.Version, 10) + "-" + strconv.FormatInt(s.LoadedAt.UnixMilli(), 36)
}

// Store loads bundles from a provider and publishes the latest good one.
type Store struct {
	provider provider.Provider
	logger   *log.Logger
	now      func() time.Time
	timeout  time.Duration

	mu      sync.Mutex
	closed  bool
	version uint64
	current atomic.Pointer[Snapshot]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the load timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTimeout bounds each provider call.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) { s.timeout = timeout }
}

// New builds a Store around p. Nothing is loaded until Load is called.
func New(p provider.Provider, opts ...Option) *Store {
	s := &Store{
		provider: p,
		logger:   log.Default(),
		now:      time.Now,
		timeout:  timeouts.BundleLoad,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Current returns the snapshot on display.
func (s *Store) Current() Snapshot {
	if s == nil {
		return Snapshot{Bundle: bundle.Empty()}
	}
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return Snapshot{Bundle: bundle.Empty()}
}

// Load fetches a bundle and publishes it. On failure the previous snapshot
// stays in place and the error is returned for the caller to log or act on.
func (s *Store) Load(ctx context.Context) error {
	if s == nil || s.provider == nil {
		return errors.New("snapshot provider is required")
	}
	loadCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	b, err := s.provider.Load(loadCtx)
	if err != nil {
		return bundle.LoadError("", err)
	}
	if b.Metric == "" {
		b.Metric = bundle.MetricResolved
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A load that finishes after Close or after ctx ends must not publish.
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.version++
	s.current.Store(&Snapshot{Bundle: b, Version: s.version, LoadedAt: s.now().UTC()})
	for _, diagnostic := range bundle.Diagnose(b) {
		s.logf("bundle diagnostic %s", diagnostic)
	}
	return nil
}

// Reload is Load with failures logged instead of returned.
func (s *Store) Reload(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.logf("bundle reload failed err=%v", err)
		return
	}
	snap := s.Current()
	s.logf("bundle loaded version=%d datasets=%d sections=%d",
		snap.Version, len(snap.Bundle.Leaderboard), len(snap.Bundle.Sections))
}

// Close stops later loads from publishing.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}
