package cache

import (
	"context"
	"time"
)

// NoopCacheService is used when no redis URL is configured. Every Get
// misses, so callers always fall through to the database.
type NoopCacheService struct{}

func NewNoopCacheService() *NoopCacheService { return &NoopCacheService{} }

func (n *NoopCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (n *NoopCacheService) Delete(ctx context.Context, key string) error { return nil }

func (n *NoopCacheService) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (n *NoopCacheService) Close() error { return nil }
