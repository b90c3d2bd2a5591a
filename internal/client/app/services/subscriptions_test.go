package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisCache "subtrak/internal/client/adapters/cache"
	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/app/services"
	"subtrak/internal/client/config"
	"subtrak/internal/client/invalidation"
	cachePorts "subtrak/internal/client/ports/cache"
)

func newRedisCache(t *testing.T) (*miniredis.Miniredis, cachePorts.Cache) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	c, err := redisCache.NewRedisCache(context.Background(), &config.RedisConfig{
		Host:           host,
		Port:           port,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
		PoolSize:       10,
		MinIdle:        2,
		DefaultTTL:     15 * time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})

	return s, c
}

type fixture struct {
	cache    cachePorts.Cache
	redis    *miniredis.Miniredis
	service  *services.SubscriptionsService
	apiCalls *atomic.Int32
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	var apiCalls atomic.Int32
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		handler.ServeHTTP(w, r)
	})

	server := httptest.NewServer(counting)
	t.Cleanup(server.Close)

	s, c := newRedisCache(t)
	api := rest.NewClient(server.Client(), server.URL)
	graph := invalidation.NewGraph(c)

	return &fixture{
		cache:    c,
		redis:    s,
		service:  services.NewSubscriptionsService(api, c, graph),
		apiCalls: &apiCalls,
	}
}

func subscriptionsHandler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /subscriptions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]dto.Subscription{{ID: 1, Name: "netflix", Amount: 15.99}})
	})
	mux.HandleFunc("POST /subscriptions", func(w http.ResponseWriter, r *http.Request) {
		var req dto.SubscriptionCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.Subscription{ID: 2, Name: req.Name, Amount: req.Amount})
	})
	mux.HandleFunc("POST /subscriptions/{id}/cancel", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestSubscriptionsService_ListCachesReads(t *testing.T) {
	f := newFixture(t, subscriptionsHandler(t))
	ctx := context.Background()

	first, err := f.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "netflix", first[0].Name)
	assert.Equal(t, int32(1), f.apiCalls.Load())

	second, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), f.apiCalls.Load(), "the second read is served from cache")

	assert.True(t, f.redis.Exists(invalidation.KeySubscriptions))
}

func TestSubscriptionsService_ListFallsBackOnCorruptCacheEntry(t *testing.T) {
	f := newFixture(t, subscriptionsHandler(t))
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, invalidation.KeySubscriptions, "{corrupt", time.Minute))

	list, err := f.service.List(ctx)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int32(1), f.apiCalls.Load(), "an unreadable entry falls back to the api")
}

func TestSubscriptionsService_CreateInvalidatesDependentReads(t *testing.T) {
	f := newFixture(t, subscriptionsHandler(t))
	ctx := context.Background()

	// Warm the dependent reads.
	_, err := f.service.List(ctx)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, invalidation.KeyDashboard, "{}", time.Minute))
	require.NoError(t, f.cache.Set(ctx, invalidation.KeyPaymentMethods, "[]", time.Minute))

	created, err := f.service.Create(ctx, dto.SubscriptionCreate{Name: "spotify", Amount: 9.99, BillingCycle: "monthly"})

	require.NoError(t, err)
	assert.Equal(t, "spotify", created.Name)

	assert.False(t, f.redis.Exists(invalidation.KeySubscriptions), "the list must be refetched after a create")
	assert.False(t, f.redis.Exists(invalidation.KeyDashboard))
	assert.True(t, f.redis.Exists(invalidation.KeyPaymentMethods), "unrelated reads stay cached")
}

func TestSubscriptionsService_FailedMutationInvalidatesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /subscriptions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	})
	mux.HandleFunc("POST /subscriptions", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	f := newFixture(t, mux)
	ctx := context.Background()

	_, err := f.service.List(ctx)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, invalidation.KeyDashboard, "{}", time.Minute))

	_, err = f.service.Create(ctx, dto.SubscriptionCreate{})

	require.Error(t, err)
	assert.True(t, f.redis.Exists(invalidation.KeySubscriptions), "a failed mutation leaves the cache untouched")
	assert.True(t, f.redis.Exists(invalidation.KeyDashboard))
}

func TestSubscriptionsService_CancelInvalidatesCancellationLog(t *testing.T) {
	f := newFixture(t, subscriptionsHandler(t))
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, invalidation.KeySubscriptions, "[]", time.Minute))
	require.NoError(t, f.cache.Set(ctx, invalidation.KeyDashboard, "{}", time.Minute))
	require.NoError(t, f.cache.Set(ctx, invalidation.KeyCancellations, "[]", time.Minute))

	err := f.service.Cancel(ctx, 1, dto.SubscriptionCancel{Reason: "too expensive"})

	require.NoError(t, err)
	assert.False(t, f.redis.Exists(invalidation.KeySubscriptions))
	assert.False(t, f.redis.Exists(invalidation.KeyDashboard))
	assert.False(t, f.redis.Exists(invalidation.KeyCancellations))
}

func TestSubscriptionsService_GetUsesScopedKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /subscriptions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.Subscription{ID: 7, Name: "icloud"})
	})

	f := newFixture(t, mux)
	ctx := context.Background()

	got, err := f.service.Get(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, f.redis.Exists("subscriptions:7"))
}
