package cache

import (
	"context"
	"sync"
	"time"
)

type viewEntry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryViewCache implements ViewCache with a TTL map.
// Suitable for single-instance deployments and tests.
type InMemoryViewCache struct {
	mu        sync.RWMutex
	entries   map[string]viewEntry
	gens      map[string]uint64 // path -> invalidation generation
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryViewCache creates the cache and starts a goroutine that purges
// expired entries every cleanupInterval. Call Close to stop it.
func NewInMemoryViewCache(cleanupInterval time.Duration) *InMemoryViewCache {
	c := &InMemoryViewCache{
		entries:  make(map[string]viewEntry),
		gens:     make(map[string]uint64),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		c.wg.Add(1)
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get returns a cached view if present and not expired
func (c *InMemoryViewCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Generation returns the invalidation generation of path
func (c *InMemoryViewCache) Generation(_ context.Context, path string) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[path], nil
}

// SetIfGeneration stores a copy of value unless path was invalidated since gen was read
func (c *InMemoryViewCache) SetIfGeneration(_ context.Context, key string, gen uint64, value []byte, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[PathOf(key)] != gen {
		return false, nil
	}
	c.entries[key] = viewEntry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(ttl),
	}
	return true, nil
}

// DeletePath removes every view of path and advances its generation
func (c *InMemoryViewCache) DeletePath(_ context.Context, path string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[path]++
	var deleted int64
	for key := range c.entries {
		if keyBelongsTo(key, path) {
			delete(c.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryViewCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of stored entries, expired or not
func (c *InMemoryViewCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryViewCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryViewCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ ViewCache = (*InMemoryViewCache)(nil)
