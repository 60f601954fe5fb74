// Package facecache keeps rasterizer faces alive between measurements.
package facecache

import (
	"slices"
	"sync"
)

// Cache is a thread-safe LRU map with a soft limit. When the cache exceeds
// the limit the least recently used quarter of the entries is evicted and
// handed to the eviction callback.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      int64
	onEvict   func(K, V)
}

type entry[V any] struct {
	value V
	atime int64
}

// New creates a cache. A softLimit of 0 means unlimited. onEvict may be
// nil; it is called without the lock held.
func New[K comparable, V any](softLimit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: softLimit,
		onEvict:   onEvict,
	}
}

// GetOrCreate returns the cached value or stores the result of create.
// create runs under the lock, so a key is never created twice. A failed
// create stores nothing.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		c.mu.Unlock()
		return e.value, nil
	}

	value, err := create()
	if err != nil {
		c.mu.Unlock()
		return value, err
	}
	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	evicted := c.evictLocked()
	c.mu.Unlock()

	c.notify(evicted)
	return value, nil
}

// DeleteFunc removes every entry whose key matches and returns how many
// were removed.
func (c *Cache[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	var removed []kv[K, V]
	for k, e := range c.entries {
		if match(k) {
			removed = append(removed, kv[K, V]{k, e.value})
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	c.notify(removed)
	return len(removed)
}

// Clear removes all entries, handing each to the eviction callback.
func (c *Cache[K, V]) Clear() {
	c.DeleteFunc(func(K) bool { return true })
	c.mu.Lock()
	c.tick = 0
	c.mu.Unlock()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type kv[K comparable, V any] struct {
	key   K
	value V
}

func (c *Cache[K, V]) notify(evicted []kv[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range evicted {
		c.onEvict(e.key, e.value)
	}
}

// evictLocked trims the cache to three quarters of the soft limit.
// Caller must hold c.mu.
func (c *Cache[K, V]) evictLocked() []kv[K, V] {
	if c.softLimit <= 0 || len(c.entries) <= c.softLimit {
		return nil
	}
	target := max(c.softLimit*3/4, 1)

	type aged struct {
		key   K
		atime int64
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.atime})
	}
	slices.SortFunc(all, func(a, b aged) int { return int(a.atime - b.atime) })

	n := len(c.entries) - target
	out := make([]kv[K, V], 0, n)
	for _, a := range all[:n] {
		out = append(out, kv[K, V]{a.key, c.entries[a.key].value})
		delete(c.entries, a.key)
	}
	return out
}
