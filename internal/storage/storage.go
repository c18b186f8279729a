// internal/storage/storage.go
package storage

import (
	"io/fs"

	"github.com/OCAP2/location-marker/pkg/core"
)

// ErrNotExist is wrapped by Backend.Load when nothing has been persisted yet.
// It aliases fs.ErrNotExist so backends can report it without importing this
// package.
var ErrNotExist = fs.ErrNotExist

// Backend is the interface all storage implementations must satisfy.
// Every Save replaces the complete persisted set; Load returns it in the
// order it was saved.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Load returns the persisted locations. Errors wrap ErrNotExist when
	// nothing was saved yet, or are a *parser.ParseError when the persisted
	// content is invalid.
	Load() ([]core.Location, error)
	// Save atomically replaces the persisted set with locs.
	Save(locs []core.Location) error

	// Name identifies the backend in logs.
	Name() string
}
