package cache_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrak/internal/client/adapters/cache"
	"subtrak/internal/client/config"
	cachePorts "subtrak/internal/client/ports/cache"
)

const testDefaultTTL = 15 * time.Minute

func mockRedisServer(t *testing.T) (*miniredis.Miniredis, *config.RedisConfig) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.RedisConfig{
		Host:           host,
		Port:           port,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
		PoolSize:       10,
		MinIdle:        2,
		DefaultTTL:     testDefaultTTL,
	}

	return s, cfg
}

func newCache(t *testing.T) (*miniredis.Miniredis, cachePorts.Cache) {
	t.Helper()

	s, cfg := mockRedisServer(t)
	c, err := cache.NewRedisCache(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
	})

	return s, c
}

func TestNewRedisCache_ConnectionFailure(t *testing.T) {
	cfg := &config.RedisConfig{
		Host:           "nonexistent.host",
		Port:           12345,
		ConnectTimeout: 100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
	}

	c, err := cache.NewRedisCache(context.Background(), cfg)

	assert.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestRedisCache_GetMissingKey(t *testing.T) {
	_, c := newCache(t)

	value, err := c.Get(context.Background(), "subscriptions")

	require.NoError(t, err, "a miss is not an error")
	assert.Empty(t, value)
}

func TestRedisCache_SetThenGet(t *testing.T) {
	_, c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "subscriptions", `[{"id":1}]`, time.Minute))

	value, err := c.Get(ctx, "subscriptions")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, value)
}

func TestRedisCache_SetZeroTTLUsesDefault(t *testing.T) {
	s, c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dashboard", "{}", 0))

	assert.Equal(t, testDefaultTTL, s.TTL("dashboard"))

	s.FastForward(testDefaultTTL + time.Second)

	value, err := c.Get(ctx, "dashboard")
	require.NoError(t, err)
	assert.Empty(t, value, "entry should expire after the default TTL")
}

func TestRedisCache_Delete(t *testing.T) {
	_, c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "categories", "[]", time.Minute))
	require.NoError(t, c.Delete(ctx, "categories"))

	value, err := c.Get(ctx, "categories")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRedisCache_InvalidateRemovesPrefixSubtree(t *testing.T) {
	s, c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "subscriptions", "[]", time.Minute))
	require.NoError(t, c.Set(ctx, "subscriptions:7", "{}", time.Minute))
	require.NoError(t, c.Set(ctx, "subscriptions:42", "{}", time.Minute))
	require.NoError(t, c.Set(ctx, "dashboard", "{}", time.Minute))

	require.NoError(t, c.Invalidate(ctx, "subscriptions"))

	assert.False(t, s.Exists("subscriptions"))
	assert.False(t, s.Exists("subscriptions:7"))
	assert.False(t, s.Exists("subscriptions:42"))
	assert.True(t, s.Exists("dashboard"), "unrelated keys survive invalidation")
}

func TestRedisCache_InvalidateIsSeparatorAware(t *testing.T) {
	s, c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "organization:1", "{}", time.Minute))
	require.NoError(t, c.Set(ctx, "organization:1:members", "[]", time.Minute))
	require.NoError(t, c.Set(ctx, "organization:12", "{}", time.Minute))

	require.NoError(t, c.Invalidate(ctx, "organization:1"))

	assert.False(t, s.Exists("organization:1"))
	assert.False(t, s.Exists("organization:1:members"))
	assert.True(t, s.Exists("organization:12"), "a longer id sharing a digit prefix is a different key")
}

func TestRedisCache_InvalidateIsIdempotent(t *testing.T) {
	_, c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "paymentMethods", "[]", time.Minute))

	require.NoError(t, c.Invalidate(ctx, "paymentMethods"))
	require.NoError(t, c.Invalidate(ctx, "paymentMethods"), "re-invalidating absent keys should succeed")
}

func TestRedisCache_InvalidateManyKeys(t *testing.T) {
	s, c := newCache(t)
	ctx := context.Background()

	// More keys than one SCAN batch returns.
	for i := range 250 {
		require.NoError(t, c.Set(ctx, "subscriptions:"+strconv.Itoa(i), "{}", time.Minute))
	}

	require.NoError(t, c.Invalidate(ctx, "subscriptions"))

	for i := range 250 {
		assert.False(t, s.Exists("subscriptions:"+strconv.Itoa(i)))
	}
}
