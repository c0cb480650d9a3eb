// Package cache provides catalog caching functionality with a Redis backend:
// JSON get/set with TTL, key deletion and glob-pattern invalidation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// deleteBatchSize is the number of keys deleted per DEL command during
// pattern invalidation.
const deleteBatchSize = 100

// Config holds Redis connection settings.
type Config struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`

	// DefaultTTL is used by Set when the caller passes a non-positive TTL.
	DefaultTTL time.Duration `envconfig:"DEFAULT_TTL" default:"300s"`
}

// Addr returns the "host:port" address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Client handles caching operations with a Redis backend.
//
// The cache is derived, disposable state: callers must treat every
// operation as best-effort and fall back to the authoritative store
// when an error is returned.
type Client struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(rdb, cfg.DefaultTTL), nil
}

// NewWithClient wraps an existing Redis client. Used by tests and by
// callers that manage the connection themselves.
func NewWithClient(rdb *redis.Client, defaultTTL time.Duration) *Client {
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Client{rdb: rdb, defaultTTL: defaultTTL}
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies the Redis connection (for readiness checks).
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get retrieves the raw string stored under key.
// A missing key is reported as found == false, not as an error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return "", false, nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	CacheHits.Inc()
	return val, true, nil
}

// GetJSON retrieves the value stored under key and unmarshals it into dest.
// A missing key is reported as found == false, not as an error.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return false, nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return false, fmt.Errorf("unmarshal cache entry %q: %w", key, err)
	}
	CacheHits.Inc()
	return true, nil
}

// Set stores value under key with the given TTL, overwriting any existing
// value. Strings are stored as-is; any other value is JSON-marshaled
// (decimals encode as numeric strings, timestamps as RFC 3339).
// A non-positive TTL selects the configured default.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	var payload []byte
	switch v := value.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		data, err := json.Marshal(value)
		if err != nil {
			CacheErrors.WithLabelValues("set").Inc()
			return fmt.Errorf("marshal cache entry %q: %w", key, err)
		}
		payload = data
	}

	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes the given keys and returns how many existed.
func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	removed, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return 0, fmt.Errorf("redis del: %w", err)
	}
	return removed, nil
}

// DeletePattern removes every key matching the glob pattern and returns the
// number of keys deleted. Enumeration uses SCAN, so unrelated keys keep
// being served while the invalidation runs.
func (c *Client) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var (
		removed int64
		batch   []string
	)

	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= deleteBatchSize {
			n, err := c.Delete(ctx, batch...)
			if err != nil {
				return removed, err
			}
			removed += n
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		CacheErrors.WithLabelValues("scan").Inc()
		return removed, fmt.Errorf("redis scan %q: %w", pattern, err)
	}

	if len(batch) > 0 {
		n, err := c.Delete(ctx, batch...)
		if err != nil {
			return removed, err
		}
		removed += n
	}

	CacheInvalidations.WithLabelValues(pattern).Add(float64(removed))
	return removed, nil
}
