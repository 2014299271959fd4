package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

// Memory is an in-process Store guarded by a single mutex.
// Contention is bounded by request concurrency, not data volume, so
// coarse-grained locking is sufficient.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry

	hits   uint64
	misses uint64
	errors uint64

	now func() time.Time
}

var _ Store = (*Memory)(nil)

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an empty in-process store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached value, purging and missing on expired entries.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if !e.expiresAt.After(m.now()) {
		// Lazy expiry: behave exactly like a miss.
		delete(m.entries, key)
		m.misses++
		return nil, false
	}

	m.hits++
	return e.value, true
}

// Set stores value under key for the given TTL.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[key] = entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// Delete removes the entry, reporting whether a live entry was present.
func (m *Memory) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return false
	}
	delete(m.entries, key)
	return e.expiresAt.After(m.now())
}

// Sweep removes all entries whose expiry has passed.
func (m *Memory) Sweep() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	evicted := 0
	for key, e := range m.entries {
		if !e.expiresAt.After(now) {
			delete(m.entries, key)
			evicted++
		}
	}
	return evicted, nil
}

// Stats returns current counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Entries: len(m.entries),
		Hits:    m.hits,
		Misses:  m.misses,
		Errors:  m.errors,
	}
}

// Close clears the store. The store must not be used afterwards.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	return nil
}
