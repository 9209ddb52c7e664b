package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/invoicedash/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const inMemoryCleanupInterval = time.Minute

// ViewCacheFactory creates the view cache backend based on configuration
type ViewCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ViewCacheFactoryOption is a functional option for configuring the factory
type ViewCacheFactoryOption func(*ViewCacheFactory)

// WithLogger sets the logger for the factory and the caches it creates
func WithLogger(logger *zap.Logger) ViewCacheFactoryOption {
	return func(f *ViewCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache when Redis is unavailable
func WithInMemoryFallback(allow bool) ViewCacheFactoryOption {
	return func(f *ViewCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewViewCacheFactory creates a new factory. Fallback defaults to cfg.InMemoryFallback.
func NewViewCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...ViewCacheFactoryOption) *ViewCacheFactory {
	f := &ViewCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: cacheCfg.InMemoryFallback,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache connects to Redis and returns a cache owning the client
func (f *ViewCacheFactory) CreateRedisCache(ctx context.Context) (*RedisViewCache, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	c := NewRedisViewCacheWithClient(client, f.logger)
	c.ownsClient = true
	return c, nil
}

// CreateInMemoryCache creates a process-local cache
func (f *ViewCacheFactory) CreateInMemoryCache() *InMemoryViewCache {
	return NewInMemoryViewCache(inMemoryCleanupInterval)
}

// CreateCache picks the backend: a no-op cache when caching is disabled,
// otherwise Redis, falling back to in-memory when allowed.
func (f *ViewCacheFactory) CreateCache(ctx context.Context) (ViewCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("View cache disabled")
		return NopViewCache{}, nil
	}

	redisCache, err := f.CreateRedisCache(ctx)
	if err == nil {
		f.logger.Info("Using Redis view cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for view cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory view cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}

// TTL returns the configured lifetime of cached views
func (f *ViewCacheFactory) TTL() time.Duration {
	return f.cacheConfig.TTL
}
