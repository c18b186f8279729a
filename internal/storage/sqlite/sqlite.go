// Package sqlitestorage stores locations in a SQLite database file.
// It wraps the GORM backend via composition; the only SQLite-specific
// concern is opening the file with durable pragmas.
package sqlitestorage

import (
	"github.com/OCAP2/location-marker/internal/database"
	gormstorage "github.com/OCAP2/location-marker/internal/storage/gorm"

	"gorm.io/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	path string
}

// New creates a SQLite backend for the database file at path. An empty path
// selects an in-memory database.
func New(path string) *Backend {
	return &Backend{
		Backend: gormstorage.New("sqlite", func() (*gorm.DB, error) {
			return database.GetSqliteDB(path)
		}),
		path: path,
	}
}

// Path returns the database file path.
func (b *Backend) Path() string {
	return b.path
}
