package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/factlens/internal/model"
)

// MemoryCache keeps verdicts in process memory until their TTL expires
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache. Expired entries are purged every ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryCache{
		cache: gocache.New(ttl, ttl),
	}
}

// Get retrieves a verdict from the cache
func (c *MemoryCache) Get(platform, claim string) (model.Verdict, bool) {
	if val, found := c.cache.Get(CacheKey(platform, claim)); found {
		return val.(model.Verdict), true
	}
	return model.Verdict{}, false
}

// Set stores a verdict with the default TTL. Error verdicts are not cached.
func (c *MemoryCache) Set(platform, claim string, verdict model.Verdict) {
	if verdict.Status != model.StatusSuccess {
		return
	}
	c.cache.SetDefault(CacheKey(platform, claim), verdict)
}

// Len returns the number of cached verdicts, including expired ones not yet purged
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
