// Package gormstorage implements location persistence over any GORM dialect.
// Each save replaces the locations table contents inside one transaction.
package gormstorage

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/OCAP2/location-marker/internal/database"
	"github.com/OCAP2/location-marker/internal/model"
	"github.com/OCAP2/location-marker/internal/model/convert"
	"github.com/OCAP2/location-marker/internal/parser"
	"github.com/OCAP2/location-marker/pkg/core"

	"gorm.io/gorm"
)

// OpenFunc opens the database connection during Init.
type OpenFunc func() (*gorm.DB, error)

var errNotInitialized = errors.New("storage backend not initialized")

// Backend persists locations through GORM.
type Backend struct {
	name string
	open OpenFunc

	mu    sync.Mutex
	db    *gorm.DB
	fresh bool // schema was created by Init and nothing saved since
}

// New creates a GORM backend. open is called once by Init.
func New(name string, open OpenFunc) *Backend {
	return &Backend{name: name, open: open}
}

// NewWithDB creates a GORM backend over an existing connection.
func NewWithDB(name string, db *gorm.DB) *Backend {
	return New(name, func() (*gorm.DB, error) { return db, nil })
}

func (b *Backend) Name() string {
	return b.name
}

// Init opens the connection and migrates the schema.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	db, err := b.open()
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", b.name, err)
	}

	b.fresh = !database.HasSchema(db)
	if err := database.Setup(db); err != nil {
		return err
	}
	b.db = db
	return nil
}

// Close releases the connection.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := database.Close(b.db)
	b.db = nil
	return err
}

// Load reads all rows in saved order.
func (b *Backend) Load() ([]core.Location, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil, errNotInitialized
	}
	if b.fresh {
		return nil, fmt.Errorf("%s database has no locations table: %w", b.name, fs.ErrNotExist)
	}

	var rows []model.Location
	if err := b.db.Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}

	locs := convert.LocationsToCore(rows)
	for i, loc := range locs {
		if err := parser.ValidateLocation(i, loc); err != nil {
			return nil, err
		}
	}
	return locs, nil
}

// Save replaces all rows with locs.
func (b *Backend) Save(locs []core.Location) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return errNotInitialized
	}

	rows := convert.CoreToLocations(locs)
	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Location{}).Error; err != nil {
			return fmt.Errorf("failed to clear locations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert locations: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.fresh = false
	return nil
}
