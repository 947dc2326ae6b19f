package services

import (
	"fmt"
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache TTLs. Listings tolerate more staleness than per-row lookups; none of
// them are ever consulted on a write path.
const (
	DefaultCacheTTL    = time.Minute
	AccountCacheTTL    = 5 * time.Minute
	SentenceCacheTTL   = 10 * time.Minute
	CountCacheTTL      = time.Minute
	ListingCacheTTL    = time.Minute
	cacheSweepInterval = 5 * time.Minute
)

// QueryCache is a process-wide TTL cache for read-heavy, slowly-changing
// queries. Entries are overwritten wholesale, never mutated in place, and the
// cache is advisory only: mutating operations always read authoritative state
// from the store.
type QueryCache struct {
	store *gocache.Cache
}

// NewQueryCache constructs a cache with the default TTL and a background
// sweep every five minutes.
func NewQueryCache() *QueryCache {
	return &QueryCache{store: gocache.New(DefaultCacheTTL, cacheSweepInterval)}
}

// Get returns the cached value for key, or ok=false when absent or expired.
func (c *QueryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores value under key. A non-positive ttl selects the default.
func (c *QueryCache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, value, ttl)
}

// Invalidate removes a single entry.
func (c *QueryCache) Invalidate(key string) {
	c.store.Delete(key)
}

// InvalidatePattern removes every key matching the given regular expression.
// Used after writes that stale a family of derived keys, e.g. "^account:"
// after an account mutation.
func (c *QueryCache) InvalidatePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid cache invalidation pattern %q: %w", pattern, err)
	}
	for key := range c.store.Items() {
		if re.MatchString(key) {
			c.store.Delete(key)
		}
	}
	return nil
}

// Cleanup evicts all expired entries immediately, independent of the
// background sweep.
func (c *QueryCache) Cleanup() {
	c.store.DeleteExpired()
}

// Len returns the number of live entries; expired but unswept entries are
// not counted by go-cache's ItemCount, so this is approximate.
func (c *QueryCache) Len() int {
	return c.store.ItemCount()
}

// WithCache returns the cached value for key, or invokes fetch, stores the
// result and returns it. Fetch failures propagate uncached.
func (c *QueryCache) WithCache(key string, ttl time.Duration, fetch func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := fetch()
	if err != nil {
		return nil, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
