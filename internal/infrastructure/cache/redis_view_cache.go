package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invoicedash/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	viewKeyPrefix        = "view:"
	viewGenKeyPrefix     = "viewgen:"
	defaultScanBatchSize = 100
)

// NewRedisClient connects to Redis and verifies the connection with PING
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisViewCache implements ViewCache on Redis strings under the "view:" prefix
type RedisViewCache struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// NewRedisViewCacheWithClient creates a cache on a shared client.
// The caller keeps ownership of the client.
func NewRedisViewCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisViewCache {
	return &RedisViewCache{client: client, logger: logger}
}

func (c *RedisViewCache) key(k string) string {
	return viewKeyPrefix + k
}

// Get retrieves a cached view
func (c *RedisViewCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached view: %w", err)
	}
	return value, true, nil
}

func (c *RedisViewCache) genKey(path string) string {
	return viewGenKeyPrefix + path
}

// Generation reads the INCR counter of path; a missing counter is generation 0
func (c *RedisViewCache) Generation(ctx context.Context, path string) (uint64, error) {
	gen, err := c.client.Get(ctx, c.genKey(path)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get view generation: %w", err)
	}
	return gen, nil
}

// SetIfGeneration stores the view in a transaction watching the path's
// generation counter, so a concurrent DeletePath aborts the write
func (c *RedisViewCache) SetIfGeneration(ctx context.Context, key string, gen uint64, value []byte, ttl time.Duration) (bool, error) {
	genKey := c.genKey(PathOf(key))
	stored := false

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(key), value, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to cache view: %w", err)
	}
	return stored, nil
}

// DeletePath advances the path's generation, then removes the bare path key
// and every path?query key
func (c *RedisViewCache) DeletePath(ctx context.Context, path string) (int64, error) {
	if err := c.client.Incr(ctx, c.genKey(path)).Err(); err != nil {
		return 0, fmt.Errorf("failed to advance view generation: %w", err)
	}

	deleted, err := c.client.Del(ctx, c.key(path)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete cached view: %w", err)
	}

	pattern := c.key(escapePattern(path)) + `\?*`
	var cursor uint64
	for {
		var keys []string
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan cached views: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete cached views: %w", err)
			}
			deleted += n
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Invalidated cached views",
		zap.String("path", path),
		zap.Int64("deleted_count", deleted))
	return deleted, nil
}

// Client returns the underlying Redis client
func (c *RedisViewCache) Client() *redis.Client {
	return c.client
}

// Close closes the client if the cache created it
func (c *RedisViewCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// escapePattern escapes Redis glob metacharacters
func escapePattern(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(s)
}

var _ ViewCache = (*RedisViewCache)(nil)
