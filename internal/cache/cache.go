// Package cache provides a process-wide TTL cache with single-flight
// recomputation.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a generic in-memory cache with per-entry expiry. Concurrent
// misses for the same key share a single computation via GetOrCompute.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]*entry[V]
	ttl   time.Duration
	group singleflight.Group

	now func() time.Time // overridable for tests
}

type entry[V any] struct {
	value      V
	expiration time.Time
}

// New creates a cache whose entries expire after ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]*entry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().After(e.expiration) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &entry[V]{
		value:      value,
		expiration: c.now().Add(ttl),
	}
}

// Delete removes key from the cache.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// GetOrCompute returns the cached value for key, or runs compute to produce
// it. At most one compute runs per key at a time; concurrent callers block
// and share its result. A successful result is cached before returning.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Recheck under the flight: another caller may have filled the
		// entry between the miss and the flight start.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		value, err := compute()
		if err != nil {
			return value, err
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Purge removes all expired entries.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.items {
		if now.After(e.expiration) {
			delete(c.items, key)
		}
	}
}

// Len returns the number of entries, including expired but unpurged ones.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
