//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/newsletter/pkg/cache"
	"github.com/dmitrymomot/newsletter/pkg/redis"
)

func newTestRedisCache(t *testing.T) *cache.Redis[string] {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, url)
	require.NoError(t, err, "failed to connect to Redis")

	c := cache.NewRedis[string](client, nil, cache.RedisConfig{
		Prefix:      "test-" + uuid.NewString(),
		CloseClient: true,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedis_Roundtrip(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", "receipt-1", time.Minute))

	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "receipt-1", val)

	has, err := c.Has(ctx, "k")
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, c.Delete(ctx, "k"))

	has, err = c.Has(ctx, "k")
	require.NoError(t, err)
	require.False(t, has)
}

func TestRedis_Expiry(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 50*time.Millisecond))

	require.Eventually(t, func() bool {
		has, err := c.Has(ctx, "k")
		return err == nil && !has
	}, 2*time.Second, 20*time.Millisecond)
}
