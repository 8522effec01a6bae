package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openshelf-io/catalog/internal/config"
)

// CountCache keeps recently computed collection totals in Redis so that a
// COUNT(*) is not issued for every paginated request. When Redis is not
// configured the cache degrades to a no-op and every lookup is a miss.
type CountCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCountCache builds a cache from the Redis section of the configuration.
// An empty Redis address disables caching.
func NewCountCache(cfg *config.Config, logger *slog.Logger) *CountCache {
	cache := &CountCache{
		ttl:    time.Duration(cfg.RedisConfig.CountCacheTTL) * time.Second,
		logger: logger,
	}

	if cfg.RedisConfig.Address == "" {
		logger.Info("Redis address not configured, count caching disabled")
		return cache
	}

	cache.client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Address,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})

	return cache
}

// Get returns the cached total for key, reporting whether one was found.
func (c *CountCache) Get(ctx context.Context, key string) (int64, bool) {
	if c.client == nil {
		return 0, false
	}

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Failed to read cached count", slog.String("key", key), slog.Any("error", err))
		}
		return 0, false
	}

	total, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		c.logger.Warn("Discarding unparsable cached count", slog.String("key", key), slog.String("value", value))
		return 0, false
	}

	return total, true
}

// Set stores the total for key with the configured TTL. Failures are logged
// and otherwise ignored; the cache is advisory.
func (c *CountCache) Set(ctx context.Context, key string, total int64) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, strconv.FormatInt(total, 10), c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache count", slog.String("key", key), slog.Any("error", err))
	}
}

// Invalidate drops the cached total for key, typically after a write that
// changed the collection size.
func (c *CountCache) Invalidate(ctx context.Context, key string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Failed to invalidate cached count", slog.String("key", key), slog.Any("error", err))
	}
}

// Close releases the underlying Redis connection.
func (c *CountCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
