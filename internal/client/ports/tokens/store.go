// Package tokens определяет интерфейс долговременного хранилища токенов.
package tokens

import (
	"context"

	"subtrak/internal/client/domain/entities"
)

// Store - долговременное хранилище текущей пары токенов.
// Реализации обязаны записывать и удалять оба слота атомарно.
type Store interface {
	// Load возвращает сохраненную пару. Отсутствие пары - пустая пара без ошибки.
	Load(ctx context.Context) (entities.TokenPair, error)

	// Save атомарно сохраняет оба токена.
	Save(ctx context.Context, pair entities.TokenPair) error

	// Clear удаляет оба токена. Идемпотентна.
	Clear(ctx context.Context) error

	Close() error
}
