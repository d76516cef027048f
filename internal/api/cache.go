package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/platform/observability"
)

const listCacheKeyPrefix = "newsroom:articles:list:"

// Cache is a read-through cache for article list responses, backed by
// Redis. Failures degrade to cache misses; the API never depends on
// Redis being up.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewCache connects a list-response cache to the Redis instance at addr.
func NewCache(addr string, ttl time.Duration, logger *zerolog.Logger) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached response body for the key, if present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.client.Get(ctx, listCacheKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("cache get failed")
		}

		observability.APIListCacheMisses.Inc()

		return nil, false
	}

	observability.APIListCacheHits.Inc()

	return body, true
}

// Set stores a response body under the key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, body []byte) {
	if err := c.client.Set(ctx, listCacheKeyPrefix+key, body, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache set failed")
	}
}

// Invalidate drops every cached list response. Called after any write
// that changes what a listing could return.
func (c *Cache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, listCacheKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache scan failed")
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache invalidate failed")
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
