package input

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tomoya55/jlcat/internal/jval"
)

// DefaultCacheSize is the row cache capacity used when none is configured.
const DefaultCacheSize = 1000

// RowCache is a bounded LRU over parsed rows keyed by row index. Get and
// Insert are O(1); fetching an existing key refreshes its recency, and
// inserting a new key at capacity evicts the least recently used entry.
type RowCache struct {
	lru *lru.Cache[int, jval.Value]
	cap int
}

// NewRowCache creates a cache holding up to size rows. Sizes below one fall
// back to the default.
func NewRowCache(size int) *RowCache {
	if size < 1 {
		size = DefaultCacheSize
	}
	// lru.New only fails on a non-positive size.
	c, _ := lru.New[int, jval.Value](size)
	return &RowCache{lru: c, cap: size}
}

// Cap returns the cache capacity.
func (c *RowCache) Cap() int { return c.cap }

// Get returns the cached row and promotes it to most recently used.
func (c *RowCache) Get(row int) (jval.Value, bool) {
	return c.lru.Get(row)
}

// Insert stores a row, evicting the least recently used entry if the key is
// new and the cache is full. Updating an existing key only refreshes recency.
func (c *RowCache) Insert(row int, v jval.Value) {
	c.lru.Add(row, v)
}

// Contains reports whether a row is cached without touching recency.
func (c *RowCache) Contains(row int) bool {
	return c.lru.Contains(row)
}

// Len returns the number of cached rows.
func (c *RowCache) Len() int { return c.lru.Len() }

// Purge drops every cached row.
func (c *RowCache) Purge() { c.lru.Purge() }
