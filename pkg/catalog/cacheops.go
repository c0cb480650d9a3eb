package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// cacheOps wraps the cache with the degrade policy shared by both services:
// the cache is never authoritative, so every failure turns into a miss or a
// no-op and the database answers instead.
type cacheOps struct {
	cache Cache
	log   zerolog.Logger
}

// get probes the cache. Cache errors degrade to a miss.
func (c *cacheOps) get(ctx context.Context, key string, dest any) bool {
	found, err := c.cache.GetJSON(ctx, key, dest)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
		return false
	}
	if found {
		c.log.Debug().Str("key", key).Msg("cache hit")
	}
	return found
}

// set populates the cache. Cache errors are logged and dropped.
func (c *cacheOps) set(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := c.cache.Set(ctx, key, value, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// invalidate removes the given keys and patterns, best-effort. A failed
// invalidation is bounded by the entry TTLs.
func (c *cacheOps) invalidate(ctx context.Context, keys []string, patterns ...string) {
	if len(keys) > 0 {
		if _, err := c.cache.Delete(ctx, keys...); err != nil {
			c.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
		}
	}
	for _, pattern := range patterns {
		removed, err := c.cache.DeletePattern(ctx, pattern)
		if err != nil {
			c.log.Warn().Err(err).Str("key", pattern).Msg("cache invalidation failed")
			continue
		}
		c.log.Debug().Str("key", pattern).Int64("removed", removed).Msg("cache invalidated")
	}
}
