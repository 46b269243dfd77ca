// Package store holds the active snapshot and replaces it atomically on reload.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/papercomputeco/nexus/pkg/eventstream"
	"github.com/papercomputeco/nexus/pkg/eventstream/nop"
	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source"
)

// ErrNotLoaded is returned by Current before the first successful load.
var ErrNotLoaded = errors.New("no snapshot loaded")

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Store owns the source and the active snapshot. Readers get the snapshot
// through an atomic pointer and never wait on a reload in progress.
type Store struct {
	src       source.Source
	kinds     *graph.KindRegistry
	insight   string
	logger    *slog.Logger
	publisher eventstream.Publisher

	reloadInterval time.Duration
	debounce       time.Duration

	current atomic.Pointer[graph.Snapshot]

	// mu serializes reloads and guards the fields below.
	mu          sync.Mutex
	generation  uint64
	lastErr     error
	lastAttempt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithKinds sets the edge kind registry used to validate every load.
func WithKinds(k *graph.KindRegistry) Option {
	return func(s *Store) { s.kinds = k }
}

// WithInsightType sets the node type loaded with typed insight attributes.
func WithInsightType(t string) Option {
	return func(s *Store) { s.insight = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPublisher sends snapshot lifecycle events to p.
func WithPublisher(p eventstream.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithReloadInterval makes Watch poll the source at the given interval
// instead of watching the file.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Store) { s.reloadInterval = d }
}

// WithDebounce sets the quiet period after a file event before reloading.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// New creates an empty store. Call Load before serving queries.
func New(src source.Source, opts ...Option) *Store {
	s := &Store{
		src:       src,
		kinds:     graph.DefaultKinds(),
		logger:    slog.New(slog.DiscardHandler),
		publisher: nop.NewPublisher(),
		debounce:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() (*graph.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Source returns the underlying snapshot source.
func (s *Store) Source() source.Source { return s.src }

// Load reads the source, builds a snapshot and swaps it in. On failure the
// previously active snapshot stays in place and the *graph.LoadError is
// returned.
func (s *Store) Load(ctx context.Context) (*graph.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.lastAttempt = start

	snap, err := s.build(ctx)
	if err != nil {
		s.lastErr = err
		s.logger.Error("snapshot load failed",
			"source", s.src.Name(),
			"generation", s.generation,
			"error", err,
		)
		s.publish(ctx, eventstream.NewSnapshotLoadFailed(s.src.Name(), s.generation, err))
		return nil, err
	}

	s.generation = snap.Generation()
	s.lastErr = nil
	s.current.Store(snap)

	elapsed := time.Since(start)
	s.logger.Info("snapshot loaded",
		"source", s.src.Name(),
		"generation", snap.Generation(),
		"nodes", snap.NodeCount(),
		"edges", snap.EdgeCount(),
		"duration", elapsed,
	)
	s.publish(ctx, eventstream.NewSnapshotLoaded(s.src.Name(), snap.Generation(), eventstream.Counts{
		Nodes:      snap.NodeCount(),
		Edges:      snap.EdgeCount(),
		Types:      len(snap.TypeIndex().Names()),
		DurationMs: elapsed.Milliseconds(),
	}))

	return snap, nil
}

// Reload is Load under the name used by callers refreshing a running store.
func (s *Store) Reload(ctx context.Context) (*graph.Snapshot, error) {
	return s.Load(ctx)
}

func (s *Store) build(ctx context.Context) (*graph.Snapshot, error) {
	doc, err := s.src.Read(ctx)
	if err != nil {
		return nil, source.LoadError(s.src.Name(), err)
	}
	return graph.Build(doc,
		graph.WithSource(s.src.Name()),
		graph.WithKinds(s.kinds),
		graph.WithInsightType(s.insight),
		graph.WithGeneration(s.generation+1),
	)
}

func (s *Store) publish(ctx context.Context, ev *eventstream.SnapshotEvent) {
	if err := s.publisher.PublishSnapshot(ctx, ev); err != nil {
		s.logger.Warn("failed to publish snapshot event",
			"event_type", ev.EventType,
			"error", err,
		)
	}
}

// Status describes the store's reload history.
type Status struct {
	Loaded      bool      `json:"loaded"`
	Source      string    `json:"source"`
	Generation  uint64    `json:"generation"`
	LoadedAt    time.Time `json:"loaded_at,omitzero"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Source:      s.src.Name(),
		Generation:  s.generation,
		LastAttempt: s.lastAttempt,
	}
	if snap := s.current.Load(); snap != nil {
		st.Loaded = true
		st.LoadedAt = snap.LoadedAt()
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Close releases the source and the event publisher.
func (s *Store) Close() error {
	return errors.Join(
		s.src.Close(),
		s.publisher.Close(),
	)
}

// Watch keeps the snapshot fresh until ctx is cancelled. With a reload
// interval it polls; otherwise it watches the file of a Watchable source.
// Failed reloads are logged and the previous snapshot stays active.
func (s *Store) Watch(ctx context.Context) error {
	if s.reloadInterval > 0 {
		return s.poll(ctx)
	}

	w, ok := s.src.(source.Watchable)
	if !ok {
		return fmt.Errorf("source %s cannot be watched, set a reload interval", s.src.Name())
	}
	return s.watchFile(ctx, w.Path())
}

func (s *Store) poll(ctx context.Context) error {
	ticker := time.NewTicker(s.reloadInterval)
	defer ticker.Stop()

	s.logger.Debug("polling snapshot source", "source", s.src.Name(), "interval", s.reloadInterval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.Load(ctx)
		}
	}
}
