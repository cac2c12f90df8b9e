// Package cache is the server's response cache. Read endpoints store their
// rendered results under namespaced keys; any write to the store (an ingest
// run, an API edit, a delete) clears the whole cache, since every listing
// and rollup could have changed.
package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds query results between store writes.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. defaultTTL bounds staleness when no write happens;
// cleanupInterval is how often expired entries are evicted from memory.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// ListKey is the cache key for an item listing. The raw query string
// captures the full filter, sort, and pagination state.
func ListKey(rawQuery string) string {
	return "items:" + rawQuery
}

// ItemKey is the cache key for a single item. Lowercased to match the
// store's case-insensitive part number lookup.
func ItemKey(partNumber string) string {
	return "item:" + strings.ToLower(partNumber)
}

// StatsKey is the cache key for a rollup (summary, brands, categories,
// price-bands).
func StatsKey(name string) string {
	return "stats:" + name
}

// FacetKey is the cache key for a distinct-values listing.
func FacetKey(name string) string {
	return "facet:" + name
}

// Get retrieves a cached value.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Clear drops every entry. Called after any store write.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of cached entries, for the health endpoint.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
