// Package cache provides a small generic cache used to memoize pure lookups.
//
// The correspondence tables in this library (tag registry, URN class table)
// are static for the lifetime of the process but are consulted once per
// parsed XML element, so the answers are worth remembering. The cache is
// bounded: when full, the least recently used entry is dropped.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Cache is a bounded, thread-safe memoization cache.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*list.Element
	order    *list.List // front = most recently used
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

type pair[K comparable, V any] struct {
	key   K
	value V
}

// New returns a Cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = 128
	}
	return &Cache[K, V]{
		entries:  make(map[K]*list.Element, capacity),
		order:    list.New(),
		capacity: capacity,
	}
}

// Get returns the cached value for key, if present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(el)
	return el.Value.(*pair[K, V]).value, true
}

// Set stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrSet returns the cached value for key, computing and storing it
// with fn on a miss. fn is called with the lock held, so it must not
// re-enter the cache; the memoized lookups here are pure table scans.
func (c *Cache[K, V]) GetOrSet(key K, fn func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.hits.Add(1)
		c.order.MoveToFront(el)
		return el.Value.(*pair[K, V]).value
	}
	c.misses.Add(1)
	v := fn()
	c.set(key, v)
	return v
}

// set inserts or updates an entry. Caller holds mu.
func (c *Cache[K, V]) set(key K, value V) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*pair[K, V]).value = value
		c.order.MoveToFront(el)
		return
	}
	if len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.entries, oldest.Value.(*pair[K, V]).key)
			c.order.Remove(oldest)
		}
	}
	c.entries[key] = c.order.PushFront(&pair[K, V]{key: key, value: value})
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all entries. Hit and miss counters are preserved.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// Stats reports cache effectiveness.
type Stats struct {
	Size    int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	s := Stats{Size: size, Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}
