// file: internal/cache/cache.go
// version: 2.0.0
// guid: 9f0a1b2c-3d4e-5f6a-7b8c-9d0e1f2a3b4c

package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a simple generic TTL cache safe for concurrent use. The catalog
// uses it for the season picker and raw-folder listings, which are read far
// more often than they change.
type Cache[T any] struct {
	mu         sync.RWMutex
	items      map[string]entry[T]
	defaultTTL time.Duration
}

// New creates a cache with the given default TTL.
func New[T any](defaultTTL time.Duration) *Cache[T] {
	return &Cache[T]{
		items:      make(map[string]entry[T]),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// GetOrFill returns the cached value, or calls fill and caches its result.
// Concurrent misses may fill more than once; the last write wins.
func (c *Cache[T]) GetOrFill(key string, fill func() (T, error)) (T, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := fill()
	if err != nil {
		return value, err
	}
	c.Set(key, value)
	return value, nil
}

// Set stores a value with the default TTL.
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a specific TTL.
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = entry[T]{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate removes a single key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// InvalidateAll removes all entries.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[string]entry[T])
	c.mu.Unlock()
}
