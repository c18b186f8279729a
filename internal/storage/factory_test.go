// internal/storage/factory_test.go
package storage_test

import (
	"testing"

	"github.com/OCAP2/location-marker/internal/config"
	"github.com/OCAP2/location-marker/internal/storage"
	"github.com/OCAP2/location-marker/internal/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend(t *testing.T) {
	tests := []struct {
		typ  string
		name string
	}{
		{"json", "json"},
		{"", "json"},
		{"sqlite", "sqlite"},
		{"postgres", "postgres"},
		{"memory", "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			b, err := storage.NewBackend(config.StorageConfig{Type: tt.typ, DataDir: t.TempDir()})
			require.NoError(t, err)
			assert.Equal(t, tt.name, b.Name())
		})
	}
}

func TestNewBackend_JSONPath(t *testing.T) {
	cfg := config.StorageConfig{Type: "json", DataDir: "/srv/data", JSON: config.JSONConfig{File: "m.json"}}

	b, err := storage.NewBackend(cfg)
	require.NoError(t, err)

	jb, ok := b.(*jsonfile.Backend)
	require.True(t, ok)
	assert.Equal(t, "/srv/data/m.json", jb.Path())
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
