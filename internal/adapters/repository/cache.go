package repository

import (
	"sync"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// CacheKind names one family of owner-scoped read sets
type CacheKind string

const (
	CacheTasks      CacheKind = "tasks"
	CacheCategories CacheKind = "categories"
	CacheStats      CacheKind = "stats"
)

// DefaultCacheTTL bounds how long a read set is reused without a write
const DefaultCacheTTL = 30 * time.Second

type cacheKey struct {
	kind  CacheKind
	owner string
}

type cacheEntry struct {
	value   interface{}
	updated time.Time
}

// ReadCache memoises owner-scoped reads served by the in-memory backend.
// Entries expire after the TTL and are dropped eagerly when the owner writes.
type ReadCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      ports.Clock
	entries  map[cacheKey]cacheEntry
	gens     map[string]uint64
	observer Observer
}

// NewReadCache creates a cache. A zero ttl means DefaultCacheTTL; a nil clock
// means time.Now.
func NewReadCache(ttl time.Duration, now ports.Clock, observer Observer) *ReadCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ReadCache{
		ttl:      ttl,
		now:      now,
		entries:  make(map[cacheKey]cacheEntry),
		gens:     make(map[string]uint64),
		observer: observer,
	}
}

// TTL returns the configured time-to-live
func (c *ReadCache) TTL() time.Duration {
	return c.ttl
}

// IsValid reports whether a fresh entry exists for (kind, owner)
func (c *ReadCache) IsValid(kind CacheKind, owner string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lookup(cacheKey{kind, owner})
	return ok
}

func (c *ReadCache) lookup(key cacheKey) (interface{}, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.updated) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// InvalidateOwner drops every cached read set for owner
func (c *ReadCache) InvalidateOwner(owner string) {
	if owner == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.owner == owner {
			delete(c.entries, key)
		}
	}
	c.gens[owner]++
}

// Clear drops everything
func (c *ReadCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
	for owner := range c.gens {
		c.gens[owner]++
	}
}

// Len returns the number of stored entries, fresh or not
func (c *ReadCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cached returns the fresh entry for (kind, owner) or runs load and stores the
// result. A result computed while the owner was being invalidated is returned
// but not stored.
func Cached[V any](c *ReadCache, kind CacheKind, owner string, load func() (V, error)) (V, error) {
	key := cacheKey{kind, owner}

	c.mu.Lock()
	if v, ok := c.lookup(key); ok {
		c.mu.Unlock()
		c.observer.CacheLookup(string(kind), true)
		return v.(V), nil
	}
	gen := c.gens[owner]
	c.mu.Unlock()
	c.observer.CacheLookup(string(kind), false)

	v, err := load()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.gens[owner] == gen {
		c.entries[key] = cacheEntry{value: v, updated: c.now()}
	}
	c.mu.Unlock()

	return v, nil
}
