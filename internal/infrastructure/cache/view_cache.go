package cache

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// ViewCache stores rendered read-side payloads keyed by request path and query
type ViewCache interface {
	// Get returns the cached payload for key. ok is false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Generation returns the invalidation generation of path.
	// DeletePath advances it.
	Generation(ctx context.Context, path string) (uint64, error)

	// SetIfGeneration stores a payload for key only while the generation of
	// the key's path still equals gen. stored is false when it has moved on.
	SetIfGeneration(ctx context.Context, key string, gen uint64, value []byte, ttl time.Duration) (stored bool, err error)

	// DeletePath removes every cached view of path, whatever its query,
	// and advances the path's generation.
	// It returns the number of entries removed.
	DeletePath(ctx context.Context, path string) (int64, error)

	// Close releases resources held by the cache
	Close() error
}

// ViewKey builds the cache key for a path and raw query string.
// Query parameters are re-encoded in sorted order so equivalent URLs share a key.
func ViewKey(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil || len(values) == 0 {
		return path + "?" + rawQuery
	}
	return path + "?" + values.Encode()
}

// PathOf returns the path part of a view key
func PathOf(key string) string {
	path, _, _ := strings.Cut(key, "?")
	return path
}

// keyBelongsTo reports whether key is a view of path
func keyBelongsTo(key, path string) bool {
	return key == path || strings.HasPrefix(key, path+"?")
}

// NopViewCache never stores anything; used when caching is disabled
type NopViewCache struct{}

func (NopViewCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopViewCache) DeletePath(context.Context, string) (int64, error) { return 0, nil }
func (NopViewCache) Close() error                                      { return nil }

func (NopViewCache) Generation(context.Context, string) (uint64, error) { return 0, nil }

func (NopViewCache) SetIfGeneration(context.Context, string, uint64, []byte, time.Duration) (bool, error) {
	return false, nil
}

var _ ViewCache = NopViewCache{}
