// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/OCAP2/location-marker/pkg/core"
)

// Backend keeps the last saved location set in memory. Nothing survives the
// process; it backs tests and dry runs.
type Backend struct {
	mu sync.RWMutex

	saved     []core.Location
	persisted bool
	saves     int

	saveErr error
	loadErr error
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string {
	return "memory"
}

func (b *Backend) Init() error {
	return nil
}

func (b *Backend) Close() error {
	return nil
}

// Load returns a copy of the last saved set.
func (b *Backend) Load() ([]core.Location, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.loadErr != nil {
		return nil, b.loadErr
	}
	if !b.persisted {
		return nil, fmt.Errorf("memory backend: %w", fs.ErrNotExist)
	}
	return cloneAll(b.saved), nil
}

// Save replaces the held set, or fails with the error set by FailSaves.
func (b *Backend) Save(locs []core.Location) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = cloneAll(locs)
	b.persisted = true
	b.saves++
	return nil
}

// Seed sets the persisted set without counting a save.
func (b *Backend) Seed(locs []core.Location) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saved = cloneAll(locs)
	b.persisted = true
}

// FailSaves makes every following Save return err. A nil err restores
// normal behaviour.
func (b *Backend) FailSaves(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saveErr = err
}

// FailLoads makes Load return err.
func (b *Backend) FailLoads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadErr = err
}

// Saved returns a copy of the held set.
func (b *Backend) Saved() []core.Location {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneAll(b.saved)
}

// Saves returns how many saves succeeded.
func (b *Backend) Saves() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saves
}

func cloneAll(locs []core.Location) []core.Location {
	out := make([]core.Location, len(locs))
	for i, l := range locs {
		out[i] = l.Clone()
	}
	return out
}
