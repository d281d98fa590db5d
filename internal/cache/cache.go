package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a small byte-oriented key/value store. MemoryCache serves a
// single instance; RedisCache is shared between replicas.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New returns a Redis cache when redisURL is set, otherwise an in-memory one.
func New(redisURL string, defaultTTL time.Duration) (Cache, error) {
	if redisURL == "" {
		return NewMemoryCache(1024, defaultTTL), nil
	}
	return NewRedisCache(redisURL, "littlesteps:")
}
