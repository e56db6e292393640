// Package dedupe tracks which race result blocks have already been fed to
// the rating engine, so a results row seen twice is not double counted.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen race keys to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if
	// not. Returns true if key was already seen, false if it was newly
	// recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing the race to be replayed after a
	// failed processing attempt.
	Unrecord(ctx context.Context, key string)

	// Size returns the current number of recorded keys.
	Size() int
}

// inMemoryDeduper implements Deduper with a plain map. A replay covers a
// bounded, known set of races, so no eviction is needed.
type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[string]struct{})}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
