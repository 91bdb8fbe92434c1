package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is the read-through cache handed explicitly to the services that need
// it. A Cache built with a nil client is a pass-through, which keeps services
// usable in tests and when Redis is down at boot.
type Cache struct {
	rdb    *redis.Client
	prefix string
}

func NewCache(rdb *redis.Client, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) key(k string) string { return c.prefix + k }

// Get decodes the cached JSON value into dst. It reports false on a miss or
// on any cache error.
func (c *Cache) Get(ctx context.Context, k string, dst any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", k).Msg("cache: get failed")
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set stores v as JSON. Errors are logged and dropped.
func (c *Cache) Set(ctx context.Context, k string, v any, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(k), b, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", k).Msg("cache: set failed")
	}
}

// Invalidar deletes every key under the given sub-prefix.
func (c *Cache) Invalidar(ctx context.Context, subprefix string) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, c.key(subprefix)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("prefix", subprefix).Msg("cache: scan failed")
		return
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			log.Warn().Err(err).Str("prefix", subprefix).Msg("cache: del failed")
		}
	}
}

// Recordar returns the cached value for k, or calls load, caches and returns
// its result.
func Recordar[T any](ctx context.Context, c *Cache, k string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if c.Get(ctx, k, &cached) {
		return cached, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.Set(context.WithoutCancel(ctx), k, v, ttl)
	return v, nil
}
