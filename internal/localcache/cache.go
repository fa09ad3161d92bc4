// Shipwatch - Real-Time Vessel Tracking Relay and Disruption Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shipwatch

package localcache

import (
	"sync"
	"time"

	"github.com/tomtom215/shipwatch/internal/metrics"
)

// Config configures a Cache.
type Config struct {
	// Path is the persistence file. Empty keeps the cache memory-only.
	Path string

	// MaxEntries is the LRU capacity. Zero or negative means unbounded.
	MaxEntries int
}

// entry is a cache slot threaded into the recency list.
type entry[V any] struct {
	key        string
	value      V
	expiresAt  time.Time // zero means no expiry
	lastAccess time.Time

	prev, next *entry[V]
}

// Cache is a TTL-aware LRU cache with optional file persistence. Entries
// expire lazily: an expired entry is removed when a lookup touches it or
// when a Set sweeps the cache. Persistence is best effort; a missing or
// corrupt file loads as an empty cache.
type Cache[V any] struct {
	cfg Config

	mu      sync.Mutex
	entries map[string]*entry[V]

	// Sentinel ring: root.next is most recently used, root.prev least.
	root entry[V]
}

// New builds a cache and, when cfg.Path is set, loads the persisted
// contents. Load failures are logged and produce an empty cache; they are
// never fatal.
func New[V any](cfg Config) *Cache[V] {
	c := &Cache[V]{
		cfg:     cfg,
		entries: make(map[string]*entry[V]),
	}
	c.root.prev = &c.root
	c.root.next = &c.root
	if cfg.Path != "" {
		c.load()
	}
	return c
}

// Get returns the live value for key. An expired entry counts as a miss
// and is removed on the spot. A hit refreshes the entry's recency.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		metrics.CacheMisses.Inc()
		return zero, false
	}
	if c.expired(e, time.Now()) {
		c.remove(e)
		metrics.CacheEvictions.Inc()
		metrics.CacheMisses.Inc()
		return zero, false
	}

	e.lastAccess = time.Now()
	c.moveToFront(e)
	metrics.CacheHits.Inc()
	return e.value, true
}

// Set stores value under key with the given lifetime. A ttl of zero or
// less means the entry never expires. Every Set sweeps expired entries and
// then evicts from the cold end until the cache fits its capacity.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry[V]{key: key}
		c.entries[key] = e
		c.pushFront(e)
	} else {
		c.moveToFront(e)
	}
	e.value = value
	e.lastAccess = now
	e.expiresAt = time.Time{}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	c.sweep(now)

	if c.cfg.MaxEntries > 0 {
		for len(c.entries) > c.cfg.MaxEntries {
			cold := c.root.prev
			if cold == &c.root {
				break
			}
			c.remove(cold)
			metrics.CacheEvictions.Inc()
		}
	}
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.remove(e)
	}
}

// Len returns the number of entries, expired ones included until a lookup
// or sweep removes them.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop flushes the cache one last time. Call on shutdown after the
// persist loop has already stopped.
func (c *Cache[V]) Stop() error {
	return c.Persist()
}

// sweep drops every expired entry. Caller holds mu.
func (c *Cache[V]) sweep(now time.Time) {
	for e := c.root.prev; e != &c.root; {
		p := e.prev
		if c.expired(e, now) {
			c.remove(e)
			metrics.CacheEvictions.Inc()
		}
		e = p
	}
}

// expired treats an entry whose deadline has arrived as already gone.
func (c *Cache[V]) expired(e *entry[V], now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// remove unlinks e and drops it from the index. Caller holds mu.
func (c *Cache[V]) remove(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	delete(c.entries, e.key)
}

// pushFront links e as most recently used. Caller holds mu.
func (c *Cache[V]) pushFront(e *entry[V]) {
	e.prev = &c.root
	e.next = c.root.next
	e.prev.next = e
	e.next.prev = e
}

// moveToFront re-links e as most recently used. Caller holds mu.
func (c *Cache[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}
