package postgres

import (
	"testing"

	"github.com/OCAP2/location-marker/internal/config"
	"github.com/OCAP2/location-marker/internal/database"
	"github.com/OCAP2/location-marker/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.PostgresConfig {
	return config.PostgresConfig{
		Host:     "db.internal",
		Port:     "5433",
		Username: "markers",
		Password: "secret",
		Database: "markers",
		SSLMode:  "disable",
	}
}

func TestNew(t *testing.T) {
	b := New(testConfig())

	require.NotNil(t, b)
	assert.Equal(t, "postgres", b.Name())
	assert.Equal(t, "host=db.internal port=5433 user=markers password=secret dbname=markers sslmode=disable", b.DSN())
}

func TestLoad_BeforeInit(t *testing.T) {
	b := New(testConfig())

	_, err := b.Load()
	assert.Error(t, err)
}

// The GORM layer is dialect agnostic, so an injected SQLite connection
// exercises the same code paths without a server.
func TestInjectedDB(t *testing.T) {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)

	b := NewWithDependencies(testConfig(), Dependencies{DB: db})
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.Save([]core.Location{{Name: "a"}, {Name: "b"}}))
	locs, err := b.Load()
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "a", locs[0].Name)
	assert.Equal(t, "b", locs[1].Name)
}
