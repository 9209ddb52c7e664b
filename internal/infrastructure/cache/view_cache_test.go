package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewKey(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		rawQuery string
		want     string
	}{
		{"no query", "/dashboard/invoices", "", "/dashboard/invoices"},
		{"single param", "/dashboard/invoices", "page=2", "/dashboard/invoices?page=2"},
		{"sorted params", "/dashboard/invoices", "query=lee&page=2", "/dashboard/invoices?page=2&query=lee"},
		{"escaped value", "/dashboard/invoices", "query=delba%20de", "/dashboard/invoices?query=delba+de"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ViewKey(tt.path, tt.rawQuery))
		})
	}
}

func TestKeyBelongsTo(t *testing.T) {
	assert.True(t, keyBelongsTo("/dashboard/invoices", "/dashboard/invoices"))
	assert.True(t, keyBelongsTo("/dashboard/invoices?page=2", "/dashboard/invoices"))
	assert.False(t, keyBelongsTo("/dashboard/invoices/abc", "/dashboard/invoices"))
	assert.False(t, keyBelongsTo("/dashboard/customers", "/dashboard/invoices"))
}

// put stores value at the path's current generation
func put(t *testing.T, c ViewCache, key string, value []byte, ttl time.Duration) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx, PathOf(key))
	require.NoError(t, err)
	stored, err := c.SetIfGeneration(ctx, key, gen, value, ttl)
	require.NoError(t, err)
	require.True(t, stored)
}

func TestInMemoryViewCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(0)
	t.Cleanup(func() { _ = c.Close() })

	now := time.Now()
	c.now = func() time.Time { return now }

	t.Run("miss", func(t *testing.T) {
		_, ok, err := c.Get(ctx, "/dashboard/invoices")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hit stores a copy", func(t *testing.T) {
		payload := []byte(`{"invoices":[]}`)
		put(t, c, "/dashboard/invoices", payload, time.Minute)
		payload[0] = 'X'

		got, ok, err := c.Get(ctx, "/dashboard/invoices")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"invoices":[]}`, string(got))
	})

	t.Run("expires", func(t *testing.T) {
		put(t, c, "/short", []byte("x"), time.Second)
		now = now.Add(2 * time.Second)

		_, ok, err := c.Get(ctx, "/short")
		require.NoError(t, err)
		assert.False(t, ok)

		c.cleanup()
		_, present := c.entries["/short"]
		assert.False(t, present)
	})
}

func TestInMemoryViewCache_DeletePath(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(0)
	t.Cleanup(func() { _ = c.Close() })

	for _, key := range []string{
		"/dashboard/invoices",
		"/dashboard/invoices?page=2",
		"/dashboard/invoices?query=lee",
		"/dashboard/customers",
	} {
		put(t, c, key, []byte("x"), time.Minute)
	}

	deleted, err := c.DeletePath(ctx, "/dashboard/invoices")

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, 1, c.Size())
	_, ok, _ := c.Get(ctx, "/dashboard/customers")
	assert.True(t, ok)
}

func TestInMemoryViewCache_InvalidatedWhileRendering(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(0)
	t.Cleanup(func() { _ = c.Close() })
	key := ViewKey("/dashboard/invoices", "page=1")

	// A listing read starts, then a mutation invalidates before it is stored
	gen, err := c.Generation(ctx, "/dashboard/invoices")
	require.NoError(t, err)
	_, err = c.DeletePath(ctx, "/dashboard/invoices")
	require.NoError(t, err)

	stored, err := c.SetIfGeneration(ctx, key, gen, []byte("stale"), time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// The next read sees the new generation and may store
	next, err := c.Generation(ctx, "/dashboard/invoices")
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	stored, err = c.SetIfGeneration(ctx, key, next, []byte("fresh"), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestInMemoryViewCache_GenerationIsPerPath(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryViewCache(0)
	t.Cleanup(func() { _ = c.Close() })

	gen, err := c.Generation(ctx, "/dashboard/customers")
	require.NoError(t, err)
	_, err = c.DeletePath(ctx, "/dashboard/invoices")
	require.NoError(t, err)

	stored, err := c.SetIfGeneration(ctx, "/dashboard/customers", gen, []byte("x"), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestPathOf(t *testing.T) {
	assert.Equal(t, "/dashboard/invoices", PathOf("/dashboard/invoices?page=2&query=lee"))
	assert.Equal(t, "/dashboard/invoices", PathOf("/dashboard/invoices"))
}

func TestInMemoryViewCache_CloseIdempotent(t *testing.T) {
	c := NewInMemoryViewCache(10 * time.Millisecond)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNopViewCache(t *testing.T) {
	ctx := context.Background()
	var c ViewCache = NopViewCache{}

	stored, err := c.SetIfGeneration(ctx, "k", 0, []byte("v"), time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEscapePattern(t *testing.T) {
	assert.Equal(t, `/a\?b\*c\[d\]`, escapePattern("/a?b*c[d]"))
}
