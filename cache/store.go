package cache

import "time"

// Stats reports cache health counters for the outward metrics surface.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	Errors  uint64
}

// Store is a byte-oriented key/value cache with per-entry expiry.
// Implementations must be safe for concurrent use; reads and writes
// serialize within a single store instance.
//
// Get must treat an expired-but-not-yet-swept entry as a miss and purge it.
// No value is ever returned after its TTL has elapsed.
type Store interface {
	// Get returns the cached value. ok=false on miss or expiry.
	Get(key string) (value []byte, ok bool)

	// Set stores value under key for the given TTL, overwriting any
	// previous entry wholesale.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes the entry. Reports whether a live entry was present.
	Delete(key string) bool

	// Sweep removes all entries whose expiry has passed and reports how
	// many were evicted.
	Sweep() (int, error)

	// Stats returns current counters.
	Stats() Stats

	// Close releases resources held by the store.
	Close() error
}
