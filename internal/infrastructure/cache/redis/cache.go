// Package redis provides the canonicalization cache backed by Redis.
// The application service fronts expensive parse→perceive→write round trips
// with it; a missing or unreachable cache degrades to recomputation.
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache is the canonicalization cache contract.  Values are JSON-encoded.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

type redisCache struct {
	client     *redis.Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
}

// NewCache connects a Redis-backed Cache using the supplied configuration.
func NewCache(cfg config.RedisConfig, logger logging.Logger) Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &redisCache{
		client:     client,
		logger:     logger.Named("cache"),
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
	}
}

func (c *redisCache) key(k string) string { return c.prefix + k }

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache get failed").
			WithDetail("key=" + key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache value decode failed").
			WithDetail("key=" + key)
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache value encode failed").
			WithDetail("key=" + key)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set failed").
			WithDetail("key=" + key)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache unreachable")
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
