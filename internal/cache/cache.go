// Package cache provides an optional Redis-backed cache for the plain list
// endpoints. Aggregate dashboard results are always recomputed and never
// cached here.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the list endpoints.
const (
	KeyEvents        = "events"
	KeyUsers         = "users"
	KeyRegistrations = "registrations"
)

// Cache wraps a Redis client with JSON get/set helpers. A nil *Cache is
// valid and disables caching, so callers never need to branch on whether
// Redis is available.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis using REDIS_URL (host:port or redis:// URL) and
// verifies the connection with a ping.
func New(ctx context.Context) (*Cache, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: 60 * time.Second}, nil
}

// GetJSON reads key and unmarshals it into dst. Returns false on miss,
// unmarshal failure, or when caching is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

// SetJSON stores v under key with the cache TTL. Errors are ignored: a cache
// write failure must never fail the request.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.SetEx(ctx, key, data, c.ttl)
}

// Invalidate removes the given keys after a write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
