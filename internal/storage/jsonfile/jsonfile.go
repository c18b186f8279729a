// Package jsonfile persists locations as a single JSON document. Every save
// rewrites the whole file through a temporary file and a rename, so readers
// never observe a partially written document.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/OCAP2/location-marker/internal/parser"
	"github.com/OCAP2/location-marker/pkg/core"
)

// Backend stores locations in one JSON file
type Backend struct {
	path string
}

// New creates a JSON file backend for path. Nothing touches the disk until Init.
func New(path string) *Backend {
	return &Backend{path: path}
}

// Path returns the location file path.
func (b *Backend) Path() string {
	return b.path
}

func (b *Backend) Name() string {
	return "json"
}

// Init ensures the containing directory exists.
func (b *Backend) Init() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (b *Backend) Close() error {
	return nil
}

// Load reads and validates the location file.
func (b *Backend) Load() ([]core.Location, error) {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("location file %s: %w", b.path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read location file: %w", err)
	}
	return parser.ParseLocations(raw)
}

// Save rewrites the location file with locs.
func (b *Backend) Save(locs []core.Location) error {
	data, err := Encode(locs)
	if err != nil {
		return err
	}
	return writeAtomic(b.path, data)
}

// Encode renders locs in the persisted document format: a JSON array with
// 4-space indentation and a trailing newline. HTML characters are written
// as-is.
func Encode(locs []core.Location) ([]byte, error) {
	if locs == nil {
		locs = []core.Location{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(locs); err != nil {
		return nil, fmt.Errorf("failed to encode locations: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace location file: %w", err)
	}
	return nil
}
