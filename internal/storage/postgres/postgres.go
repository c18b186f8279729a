// Package postgres stores locations in PostgreSQL through the GORM backend.
package postgres

import (
	"github.com/OCAP2/location-marker/internal/config"
	"github.com/OCAP2/location-marker/internal/database"
	gormstorage "github.com/OCAP2/location-marker/internal/storage/gorm"

	"gorm.io/gorm"
)

// Dependencies holds an optional pre-opened connection, used instead of
// dialing the configured server.
type Dependencies struct {
	DB *gorm.DB
}

// Backend wraps the GORM backend for PostgreSQL.
type Backend struct {
	*gormstorage.Backend
	cfg config.PostgresConfig
}

// New creates a PostgreSQL backend. The connection is made by Init.
func New(cfg config.PostgresConfig) *Backend {
	return NewWithDependencies(cfg, Dependencies{})
}

// NewWithDependencies creates a PostgreSQL backend, reusing deps.DB when set.
func NewWithDependencies(cfg config.PostgresConfig, deps Dependencies) *Backend {
	open := func() (*gorm.DB, error) {
		if deps.DB != nil {
			return deps.DB, nil
		}
		return database.GetPostgresDB(cfg)
	}
	return &Backend{
		Backend: gormstorage.New("postgres", open),
		cfg:     cfg,
	}
}

// DSN returns the connection string Init dials.
func (b *Backend) DSN() string {
	return b.cfg.DSN()
}
