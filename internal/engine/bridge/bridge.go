// Package bridge moves cache entries between the form and the persisted cache store.
package bridge

import (
	"sync"

	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bridge loads and commits entry lists through a ports.CacheStore.
// It remembers the fingerprint of the last bytes it read or wrote per path
// so external edits can be told apart from its own writes.
type Bridge struct {
	store ports.CacheStore

	mu           sync.Mutex
	fingerprints map[string]uint64
}

// New creates a Bridge over store.
func New(store ports.CacheStore) *Bridge {
	return &Bridge{
		store:        store,
		fingerprints: make(map[string]uint64),
	}
}

// Load reads the cache at path. Entry order is the declared order of the store.
func (b *Bridge) Load(path string) (domain.Entries, error) {
	snap, err := b.store.Load(path)
	if err != nil {
		return nil, err
	}
	b.remember(path, snap.Fingerprint)
	return snap.Entries, nil
}

// Commit normalizes every entry and writes the full list to path.
// Validation happens before anything is written, so an invalid value leaves
// the store untouched. The store replaces the file atomically.
func (b *Bridge) Commit(path string, entries domain.Entries) error {
	normalized, err := domain.Normalize(entries)
	if err != nil {
		return zerr.With(err, "path", path)
	}
	sum, err := b.store.Save(path, normalized)
	if err != nil {
		return err
	}
	b.remember(path, sum)
	return nil
}

// Stale reports whether the cache at path changed since the bridge last
// loaded or committed it. A path the bridge never touched is stale.
func (b *Bridge) Stale(path string) (bool, error) {
	current, err := b.store.Fingerprint(path)
	if err != nil {
		return false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	known, ok := b.fingerprints[path]
	return !ok || known != current, nil
}

func (b *Bridge) remember(path string, sum uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fingerprints[path] = sum
}
