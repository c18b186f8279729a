// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/OCAP2/location-marker/internal/config"
	gormstorage "github.com/OCAP2/location-marker/internal/storage/gorm"
	"github.com/OCAP2/location-marker/internal/storage/jsonfile"
	"github.com/OCAP2/location-marker/internal/storage/memory"
	"github.com/OCAP2/location-marker/internal/storage/postgres"
	sqlitestorage "github.com/OCAP2/location-marker/internal/storage/sqlite"
)

var (
	_ Backend = (*jsonfile.Backend)(nil)
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*gormstorage.Backend)(nil)
	_ Backend = (*sqlitestorage.Backend)(nil)
	_ Backend = (*postgres.Backend)(nil)
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "json", "":
		return jsonfile.New(cfg.JSONPath()), nil
	case "sqlite":
		return sqlitestorage.New(cfg.SQLitePath()), nil
	case "postgres":
		return postgres.New(cfg.Postgres), nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
