// Package cache определяет интерфейс кэша прочитанных данных.
package cache

import (
	"context"
	"time"
)

// Cache - кэш результатов чтения удаленного API.
// Ключи группируются префиксами, инвалидация выполняется по префиксу.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Invalidate удаляет все ключи с указанным префиксом. Идемпотентна.
	Invalidate(ctx context.Context, prefix string) error

	Close() error
}
