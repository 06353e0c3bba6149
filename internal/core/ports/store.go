package ports

import "go.trai.ch/knob/internal/core/domain"

// CacheStore defines the interface for the persisted cache.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Load reads the cache at path, preserving declared entry order.
	Load(path string) (domain.Snapshot, error)

	// Save atomically replaces the cache at path with entries.
	// It returns the fingerprint of the written bytes.
	Save(path string, entries domain.Entries) (uint64, error)

	// Fingerprint returns the fingerprint of the cache currently at path.
	Fingerprint(path string) (uint64, error)
}
