package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(maxSize int, ttl time.Duration) *CacheManager {
	return NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: ttl})
}

func TestManagerGetSet(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", "v"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManagerExpiry(t *testing.T) {
	m := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "k", "v"))

	now = now.Add(2 * time.Minute)
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.Equal(t, int64(1), m.Stats()["evictions"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m := newTestManager(2, time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("recipe", "a", "b"), Key("recipe", "a", "b"))
	assert.NotEqual(t, Key("recipe", "ab", ""), Key("recipe", "a", "b"))
	assert.Contains(t, Key("recipe", "x"), "recipe:")
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewStore(ctx, &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = NewStore(ctx, &config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 1}})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, config.CacheBackendMemory, store.Backend())
	require.NoError(t, store.Close())

	_, err = NewStore(ctx, &config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "etcd"}})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	store, err := NewRedisStore(ctx, config.RedisConfig{Addr: addr}, config.CacheConfig{TTL: time.Minute})
	require.NoError(t, err)
	defer store.Close()

	key := Key("test", t.Name(), time.Now().String())
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, store.Set(ctx, key, "value"))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
