// Package cachefile implements the persisted cache store.
//
// Files named *.yaml or *.yml hold a YAML document; every other path is read
// and written in the CMakeCache.txt text format.
package cachefile

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/knob/internal/adapters/fs"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/zerr"
)

// codec converts between entries and file bytes.
type codec interface {
	decode(data []byte) (domain.Entries, error)
	encode(entries domain.Entries) ([]byte, error)
}

// Store implements ports.CacheStore on the local file system.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the cache at path. A missing file is an empty cache.
func (s *Store) Load(path string) (domain.Snapshot, error) {
	//nolint:gosec // Path comes from the project configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, zerr.With(domain.WrapKind(domain.ErrCacheRead, err), "path", path)
	}

	entries, err := codecFor(path).decode(data)
	if err != nil {
		return domain.Snapshot{}, zerr.With(err, "path", path)
	}
	return domain.Snapshot{Entries: entries, Fingerprint: fs.HashBytes(data)}, nil
}

// Save atomically replaces the cache at path with entries.
func (s *Store) Save(path string, entries domain.Entries) (uint64, error) {
	for _, e := range entries {
		if err := domain.ValidateEntryName(e.Name); err != nil {
			return 0, domain.WrapKind(domain.ErrCacheWrite, err)
		}
	}

	data, err := codecFor(path).encode(entries)
	if err != nil {
		return 0, zerr.With(domain.WrapKind(domain.ErrCacheWrite, err), "path", path)
	}
	if err := fs.WriteFile(path, data); err != nil {
		return 0, zerr.With(domain.WrapKind(domain.ErrCacheWrite, err), "path", path)
	}
	return fs.HashBytes(data), nil
}

// Fingerprint returns the xxhash of the file at path, or 0 if it does not exist.
func (s *Store) Fingerprint(path string) (uint64, error) {
	sum, err := fs.HashFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.With(domain.WrapKind(domain.ErrCacheRead, err), "path", path)
	}
	return sum, nil
}

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return textCodec{}
	}
}
