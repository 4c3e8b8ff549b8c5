// internal/store/redisstore/redisstore.go

// Package redisstore shares evaluated snapshots across engine instances. The
// in-process memo is per-process; this layer lets a fleet reuse each other's
// work for the cache TTL.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"compliance-engine/internal/common/config"
	stderrors "compliance-engine/internal/common/errors"
)

const keyPrefix = "eval:"

// EvalCache stores serialized evaluation results keyed by dataset version
// and filter state.
type EvalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates the shared evaluation cache.
func New(cfg config.RedisConfig, cache config.CacheConfig) *EvalCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return NewWithClient(rdb, time.Duration(cache.TTLSeconds)*time.Second)
}

// NewWithClient wraps an existing client; tests inject miniredis through it.
func NewWithClient(client *redis.Client, ttl time.Duration) *EvalCache {
	return &EvalCache{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (c *EvalCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *EvalCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Get unmarshals a cached evaluation into out. The second return reports
// whether the key was present.
func (c *EvalCache) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, stderrors.NewCacheUnavailableError(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		// A corrupt entry is treated as a miss so the caller recomputes.
		return false, nil
	}
	return true, nil
}

// Put serializes value under key for the configured TTL.
func (c *EvalCache) Put(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}
	return nil
}

// Invalidate drops every cached evaluation for one dataset version.
func (c *EvalCache) Invalidate(ctx context.Context, version string) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+version+"|*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return stderrors.NewCacheUnavailableError(err)
	}
	return nil
}
