package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheService implements CacheService on top of a redis client.
type RedisCacheService struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCacheService(client *redis.Client, logger *slog.Logger) *RedisCacheService {
	return &RedisCacheService{client: client, logger: logger}
}

func (r *RedisCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (r *RedisCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		r.logger.Warn("cache get failed", "key", key, "error", err)
		return nil, err
	}
	return value, nil
}

func (r *RedisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching pattern using SCAN so the
// server is never blocked by a KEYS call.
func (r *RedisCacheService) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
