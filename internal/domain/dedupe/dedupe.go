// Package dedupe defines the interface for submission idempotency tracking.
//
// Judges on flaky venue wifi retry POSTs; the deduper lets the API
// acknowledge a retried submission id without re-enqueueing it.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen submission IDs to ensure at-most-once intake.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing it to be retried.
	// Used when a submission was marked seen but failed to enqueue
	// (queue backpressure).
	Unrecord(ctx context.Context, id string)

	// Size returns the current number of tracked IDs.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring of
// insertion order for bounded eviction. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	head    int
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000, // default max size
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	d.seen[id] = struct{}{}
	if d.maxSize > 0 {
		d.order = append(d.order, id)
	}
	return false
}

// Unrecord removes an ID from the seen set. The order ring keeps a stale
// entry; eviction skips IDs no longer present.
func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

// evictOldest drops the oldest still-present ID. Must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for d.head < len(d.order) {
		id := d.order[d.head]
		d.head++
		if _, ok := d.seen[id]; ok {
			delete(d.seen, id)
			return
		}
	}
	// Ring fully consumed; reset to reclaim the backing array.
	d.order = d.order[:0]
	d.head = 0
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
