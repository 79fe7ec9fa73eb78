package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStoreGetSet(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "k", "v"))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	stats := store.Stats()
	assert.Equal(t, config.CacheRedis, stats["backend"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, int64(0), stats["errors"])
}

func TestRedisStoreExpires(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestRedisStoreConnectionFailure(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Minute)
	mr.Close()

	_, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrCacheMiss)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
	assert.Equal(t, int64(2), store.Stats()["errors"])
}

func TestNewRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := New(config.CacheConfig{
		Enabled:  true,
		Backend:  config.CacheRedis,
		TTL:      time.Hour,
		RedisURL: "redis://" + mr.Addr() + "/0",
	})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), Key("eggs|kcal=500|limit=5"), "[]"))
	assert.True(t, mr.Exists(Key("eggs|kcal=500|limit=5")))

	_, err = New(config.CacheConfig{Enabled: true, Backend: config.CacheRedis, RedisURL: "not-a-url"})
	assert.Error(t, err)
}
