package cache

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// cacheEntry holds a cached value with its timestamp.
type cacheEntry struct {
	value     string
	timestamp time.Time
}

// LRUCache is a thread-safe in-memory cache with least-recently-used eviction
// and optional TTL.
//
// Recency is tracked by a groupcache LRU list; values live in a side map so
// the whole cache can be snapshotted without disturbing recency.
type LRUCache struct {
	order  *lru.Cache
	values map[string]cacheEntry
	mu     sync.Mutex
	ttl    time.Duration
}

// NewLRUCache creates a cache holding at most capacity entries.
// If capacity is 0 or negative, the cache is unbounded.
// If ttl is 0 or negative, entries never expire.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity < 0 {
		capacity = 0
	}
	if ttl < 0 {
		ttl = 0
	}

	c := &LRUCache{
		order:  lru.New(capacity),
		values: make(map[string]cacheEntry),
		ttl:    ttl,
	}
	c.order.OnEvicted = func(key lru.Key, _ interface{}) {
		delete(c.values, key.(string))
	}
	return c
}

// Get retrieves a value and marks it as recently used.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (c *LRUCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.values[key]
	if !ok {
		return "", false
	}

	if c.expired(entry, time.Now()) {
		c.order.Remove(key)
		return "", false
	}

	c.order.Get(key)
	return entry.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *LRUCache) Set(key string, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = cacheEntry{
		value:     value,
		timestamp: time.Now(),
	}
	c.order.Add(key, nil)
	return nil
}

// Delete removes a key.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Remove(key)
}

// Len returns the number of entries in the cache (including expired ones).
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Capacity returns the entry limit, 0 when unbounded.
func (c *LRUCache) Capacity() int {
	return c.order.MaxEntries
}

// Clear removes all entries from the cache.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Clear()
	c.values = make(map[string]cacheEntry)
}

// Entries returns all non-expired entries as key-value pairs.
// This is used for persistence and export; recency is not affected.
func (c *LRUCache) Entries() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]string, len(c.values))
	now := time.Now()

	for key, entry := range c.values {
		if c.expired(entry, now) {
			continue
		}
		result[key] = entry.value
	}

	return result
}

func (c *LRUCache) expired(entry cacheEntry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.timestamp) > c.ttl
}

// Verify LRUCache implements TranslationCache
var _ TranslationCache = (*LRUCache)(nil)
