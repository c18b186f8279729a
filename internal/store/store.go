// Package store holds the authoritative set of location markers. A single
// mutex serialises every read, every mutation and the persistence step that
// follows it, so the backend always holds a state the index has been in.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/OCAP2/location-marker/internal/cache"
	"github.com/OCAP2/location-marker/internal/parser"
	"github.com/OCAP2/location-marker/internal/storage"
	"github.com/OCAP2/location-marker/internal/storage/jsonfile"
	"github.com/OCAP2/location-marker/pkg/core"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Store is the concurrent, persisted location registry.
type Store struct {
	mu      sync.Mutex
	index   *cache.LocationIndex
	backend storage.Backend
	logger  *slog.Logger

	count atomic.Int64

	// OTEL metrics
	countGauge      metric.Int64ObservableGauge
	persistFailures metric.Int64Counter
}

// New creates an empty Store over an initialized backend. Call Load before use.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(backend storage.Backend, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		index:   cache.NewLocationIndex(),
		backend: backend,
		logger:  logger.With("component", "store", "backend", backend.Name()),
	}

	m := meter()

	var err error

	s.countGauge, err = m.Int64ObservableGauge(
		"markers.count",
		metric.WithDescription("Current number of stored markers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating marker count gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(s.countGauge, s.count.Load(),
				metric.WithAttributes(attribute.String("backend", backend.Name())))
			return nil
		},
		s.countGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering marker count callback: %w", err)
	}

	s.persistFailures, err = m.Int64Counter(
		"markers.persist.failures",
		metric.WithDescription("Total failed writes to the storage backend"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating persist failure counter: %w", err)
	}

	return s, nil
}

// Open initializes a JSON file backend at path and loads the store from it.
func Open(path string, logger *slog.Logger) (*Store, error) {
	backend := jsonfile.New(path)
	if err := backend.Init(); err != nil {
		return nil, err
	}
	s, err := New(backend, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Backend returns the storage backend the store persists to.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Get looks up a marker by exact name.
func (s *Store) Get(name string) (core.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Get(name)
}

// Contains reports whether a marker with name exists.
func (s *Store) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Contains(name)
}

// Len returns the number of markers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Len()
}

// List returns a snapshot of all markers in insertion order.
func (s *Store) List() []core.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Snapshot()
}

// Add stores loc and persists the full set. It returns false without
// writing when the name is taken. If the write fails the marker is
// dropped again and the error returned.
func (s *Store) Add(loc core.Location) (bool, error) {
	if err := parser.ValidateLocation(-1, loc); err != nil {
		return false, fmt.Errorf("add %q: %w", loc.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.index.Append(loc) {
		return false, nil
	}
	if err := s.persistLocked("add"); err != nil {
		s.index.Remove(loc.Name)
		s.syncCount()
		return false, fmt.Errorf("add %q: %w", loc.Name, err)
	}
	return true, nil
}

// Remove deletes the named marker and persists the full set, returning the
// removed marker. It returns false without writing when the name is absent.
// If the write fails the marker is restored at its previous position.
func (s *Store) Remove(name string) (core.Location, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, idx, ok := s.index.Remove(name)
	if !ok {
		return core.Location{}, false, nil
	}
	if err := s.persistLocked("remove"); err != nil {
		s.index.Insert(idx, loc)
		s.syncCount()
		return core.Location{}, false, fmt.Errorf("remove %q: %w", name, err)
	}
	return loc, true, nil
}

// Save writes the full ordered set to the backend.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked("save")
}

// Load replaces the in-memory set with the persisted one. A missing store is
// created empty. Invalid persisted content is logged with the raw data and
// replaced by an empty store; only I/O failures are returned.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index.Reset()
	s.syncCount()

	locs, err := s.backend.Load()
	var parseErr *parser.ParseError
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotExist):
		s.logger.Info("No stored markers found, creating empty store")
		return s.persistLocked("load")
	case errors.As(err, &parseErr):
		s.logger.Error("Failed to parse stored markers, resetting to empty store",
			"error", parseErr,
			"raw", string(parseErr.Raw))
		return s.persistLocked("load")
	default:
		return fmt.Errorf("load: %w", err)
	}

	dropped := 0
	for _, loc := range locs {
		if !s.index.Append(loc) {
			dropped++
		}
	}
	s.syncCount()

	if dropped > 0 {
		s.logger.Warn("Dropped markers with duplicate names", "dropped", dropped)
	}
	s.logger.Info("Loaded markers", "count", s.index.Len())
	return nil
}

// LogAttrs reports the store state for log enrichment. It does not take the
// lock and may be called from any goroutine.
func (s *Store) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("backend", s.backend.Name()),
		slog.Int64("markers", s.count.Load()),
	}
}

func (s *Store) persistLocked(op string) error {
	s.syncCount()
	if err := s.backend.Save(s.index.Snapshot()); err != nil {
		s.persistFailures.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("op", op)))
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

func (s *Store) syncCount() {
	s.count.Store(int64(s.index.Len()))
}
