package common

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache wraps go-cache with a generation counter. Every invalidation bumps the
// generation, so a value read from the store before an invalidation is never stored
// after it.
type Cache struct {
	*cache.Cache

	mu         sync.Mutex
	generation uint64
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{Cache: cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

// Generation returns the current generation. Take it before reading the store and
// pass it to SetIfCurrent.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation
}

// SetIfCurrent stores value only when no invalidation happened since generation was
// taken. It reports whether the value was stored.
func (c *Cache) SetIfCurrent(key string, value interface{}, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return false
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)

	return true
}

// Invalidate removes every given key.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	for _, key := range keys {
		c.Cache.Delete(key)
	}
}

// InvalidatePrefix removes every key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	for key := range c.Cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.Cache.Delete(key)
		}
	}
}

func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.Cache.Flush()
}

func CacheKeyCount(kind EntityKind) string {
	return "count:" + string(kind)
}

const (
	CacheKeyRecentReviews   = "reviews:recent"
	CacheKeyModerationLists = "reviews:moderation:"
)

func CacheKeyRecentReviewsLimit(limit int) string {
	return CacheKeyRecentReviews + ":" + strconv.Itoa(limit)
}

// CacheKeyModerationList keys one page of the admin review list. featured is "all", "true" or "false".
func CacheKeyModerationList(featured string, limit, offset int) string {
	return CacheKeyModerationLists + featured + ":" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
}
