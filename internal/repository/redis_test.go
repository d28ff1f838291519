package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisCache(client, "settings")
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		err := cache.Set(ctx, "company_name", "Noble Jade Janitorial Services", time.Hour)
		require.NoError(t, err)

		got, err := cache.Get(ctx, "company_name")
		require.NoError(t, err)
		assert.Equal(t, "Noble Jade Janitorial Services", got)
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		err := cache.Set(ctx, "short_lived", "v", time.Second)
		require.NoError(t, err)

		s.FastForward(2 * time.Second)

		_, err = cache.Get(ctx, "short_lived")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "gone_soon", "v", time.Hour))
		require.NoError(t, cache.Delete(ctx, "gone_soon"))

		_, err := cache.Get(ctx, "gone_soon")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("DeleteAllPrefixScoped", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "a", "1", time.Hour))
		require.NoError(t, cache.Set(ctx, "b", "2", time.Hour))
		require.NoError(t, client.Set(ctx, "other:key", "keep", 0).Err())

		require.NoError(t, cache.DeleteAll(ctx))

		_, err := cache.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = cache.Get(ctx, "b")
		assert.ErrorIs(t, err, ErrCacheMiss)

		kept, err := client.Get(ctx, "other:key").Result()
		require.NoError(t, err)
		assert.Equal(t, "keep", kept)
	})

	t.Run("NilClient", func(t *testing.T) {
		cache := NewRedisCache(nil, "")
		_, err := cache.Get(ctx, "k")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
	})
}
