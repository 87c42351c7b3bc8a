// Package ttlcache provides a small in-process cache with per-entry
// expiry and explicit invalidation. It backs the read-mostly lookup
// lists so repeated dropdown loads do not hit the database.
package ttlcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]

	// now is swappable for tests.
	now func() time.Time
}

func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and not yet expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops the entry for key, if any.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
