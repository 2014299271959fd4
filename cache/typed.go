package cache

import (
	"encoding/json"
	"time"
)

// Typed wraps a Store with a JSON codec so callers work with domain values
// instead of raw bytes. Cached payloads must be JSON-serializable.
type Typed[V any] struct {
	store Store
}

// NewTyped creates a typed view over store.
func NewTyped[V any](store Store) Typed[V] {
	return Typed[V]{store: store}
}

// Get returns the decoded value. A decode failure purges the entry and
// behaves like a miss so the caller falls through to recompute.
func (t Typed[V]) Get(key string) (V, bool) {
	var value V

	raw, ok := t.store.Get(key)
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		t.store.Delete(key)
		var zero V
		return zero, false
	}
	return value, true
}

// Set encodes and stores the value. Encoding failures are returned to the
// caller but are never fatal to a request: cache writes are best effort.
func (t Typed[V]) Set(key string, value V, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	t.store.Set(key, raw, ttl)
	return nil
}

// Delete removes the entry.
func (t Typed[V]) Delete(key string) bool {
	return t.store.Delete(key)
}
