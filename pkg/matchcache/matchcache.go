// Copyright 2025, Omnimatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package matchcache caches compiled combined matchers by pattern.
// Building a combined matcher compiles up to three engines, and
// interactive callers re-send the same pattern on every candidate
// batch, so the cache keeps the hot patterns warm and bounds memory
// with LRU eviction.
package matchcache

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/omnimatchdev/omnimatch/pkg/match"
)

const DefaultMaxEntries = 64

// Cache is a bounded, mutex-guarded LRU of compiled matchers. The
// linkedhashmap keeps insertion order; entries are re-inserted on
// access so the front is always the least recently used.
type Cache struct {
	lock       sync.Mutex
	entries    *linkedhashmap.Map
	maxEntries int
	hits       int64
	misses     int64
}

// New creates a cache holding at most maxEntries matchers. A
// non-positive maxEntries falls back to DefaultMaxEntries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    linkedhashmap.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the cached combined matcher for pattern, compiling and
// caching one if needed. The same pattern always yields the same
// instance until it is evicted.
func (c *Cache) Get(pattern string) *match.Combined {
	c.lock.Lock()
	defer c.lock.Unlock()

	if val, ok := c.entries.Get(pattern); ok {
		c.hits++
		// Move to the back (most recently used).
		c.entries.Remove(pattern)
		c.entries.Put(pattern, val)
		return val.(*match.Combined)
	}

	c.misses++
	matcher := match.NewCombined(pattern)
	c.entries.Put(pattern, matcher)
	for c.entries.Size() > c.maxEntries {
		it := c.entries.Iterator()
		if !it.First() {
			break
		}
		c.entries.Remove(it.Key())
	}
	return matcher
}

// Contains reports whether pattern is cached, without touching LRU order
func (c *Cache) Contains(pattern string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.entries.Get(pattern)
	return ok
}

// Size returns the number of cached matchers
func (c *Cache) Size() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.entries.Size()
}

// Stats returns cumulative hit and miss counts
func (c *Cache) Stats() (hits int64, misses int64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached matcher
func (c *Cache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries.Clear()
}
