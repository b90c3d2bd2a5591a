// Package services содержит типизированную поверхность удаленного API.
// Чтения проходят через кэш, мутации фиксируются через граф инвалидации.
package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/invalidation"
	"subtrak/internal/client/ports/cache"
	"subtrak/pkg/logger"
)

// Константы для логирования.
const (
	LogCacheHit = "read served from cache"

	WarnCacheWrite = "failed to cache read result"
	WarnCacheRead  = "failed to read from cache, falling back to api"
)

// base - общие зависимости сервисов API.
type base struct {
	api   *rest.Client
	cache cache.Cache
	graph *invalidation.Graph
}

// commit выполняет мутацию и при успехе инвалидирует зависимые чтения.
// Неудачная мутация не инвалидирует ничего: кэш остается согласованным
// с последним известным состоянием сервера.
func (b *base) commit(ctx context.Context, m invalidation.Mutation, scope invalidation.Scope, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		return err
	}
	return b.graph.OnMutationCommitted(ctx, m, scope)
}

// readThrough возвращает значение из кэша или запрашивает его у API
// и кладет в кэш под тем же ключом, который инвалидирует граф.
func readThrough[T any](ctx context.Context, c cache.Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	log := logger.Log(ctx).With(zap.String("cache_key", key))

	cached, err := c.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn(ctx, WarnCacheRead, zap.Error(err))
	case cached != "":
		var out T
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			log.Debug(ctx, LogCacheHit)
			return out, nil
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if encoded, err := json.Marshal(out); err == nil {
		if err := c.Set(ctx, key, string(encoded), 0); err != nil {
			log.Warn(ctx, WarnCacheWrite, zap.Error(err))
		}
	}

	return out, nil
}
