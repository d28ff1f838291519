package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "company_phone", "306-555-0101", time.Hour))

		got, err := cache.Get(ctx, "company_phone")
		require.NoError(t, err)
		assert.Equal(t, "306-555-0101", got)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "short_lived", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := cache.Get(ctx, "short_lived")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("ZeroTTLNeverExpires", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "pinned", "v", 0))

		got, err := cache.Get(ctx, "pinned")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "gone_soon", "v", time.Hour))
		require.NoError(t, cache.Delete(ctx, "gone_soon"))

		_, err := cache.Get(ctx, "gone_soon")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("DeleteAll", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "a", "1", time.Hour))
		require.NoError(t, cache.Set(ctx, "b", "2", time.Hour))
		require.NoError(t, cache.DeleteAll(ctx))

		_, err := cache.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = cache.Get(ctx, "b")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
