package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// GeneralCache is a process-local TTL cache. Writes are admitted
// asynchronously; a Get straight after a Set may miss.
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache builds a cache bounded by maxCost entries (every item costs 1).
// A zero ttl keeps items until evicted.
func NewGeneralCache(maxCost int64, ttl time.Duration) (*GeneralCache, error) {
	if maxCost <= 0 {
		return nil, fmt.Errorf("cache max cost must be positive, got %d", maxCost)
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}

	return &GeneralCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

func (c *GeneralCache) Set(key string, value any) bool {
	return c.SetWithTTL(key, value, c.ttl)
}

func (c *GeneralCache) SetWithTTL(key string, value any, ttl time.Duration) bool {
	return c.cache.SetWithTTL(key, value, 1, ttl)
}

func (c *GeneralCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// Wait blocks until buffered writes are applied.
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

func (c *GeneralCache) Delete(key string) {
	c.cache.Del(key)
}

func (c *GeneralCache) Close() {
	c.cache.Close()
}
