// Package tokenstore содержит реализацию хранилища токенов на Redis.
package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"subtrak/internal/client/config"
	"subtrak/internal/client/domain/entities"
	"subtrak/internal/client/ports/tokens"
	"subtrak/pkg/logger"
)

// Именованные слоты хранения. Переживают перезапуск процесса.
const (
	SlotAccessToken  = "auth:access_token"
	SlotRefreshToken = "auth:refresh_token"
)

// Константы для логирования.
const (
	LogMethodLoad  = "load"
	LogMethodSave  = "save"
	LogMethodClear = "clear"

	ErrorFailedToLoad  = "failed to load token pair"
	ErrorFailedToSave  = "failed to save token pair"
	ErrorFailedToClear = "failed to clear token pair"
	ErrorFailedToClose = "failed to close redis connection"

	WarnLoneSlot = "lone token slot found, treating pair as absent"
)

// ErrIncompletePair возвращается при попытке сохранить неполную пару.
var ErrIncompletePair = errors.New("token pair must contain both tokens")

// RedisStore реализует интерфейс tokens.Store на Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает новое хранилище токенов.
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig) (tokens.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetAddressString(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Load возвращает сохраненную пару токенов.
// Одиночный слот считается отсутствием пары: валидная сессия требует обоих токенов.
func (s *RedisStore) Load(ctx context.Context) (entities.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodLoad))

	values, err := s.client.MGet(ctx, SlotAccessToken, SlotRefreshToken).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToLoad, zap.Error(err))
		return entities.TokenPair{}, fmt.Errorf("%s: %w", ErrorFailedToLoad, err)
	}

	pair := entities.TokenPair{}
	if access, ok := values[0].(string); ok {
		pair.AccessToken = access
	}
	if refresh, ok := values[1].(string); ok {
		pair.RefreshToken = refresh
	}

	if !pair.IsEmpty() && !pair.IsComplete() {
		log.Warn(ctx, WarnLoneSlot)
		return entities.TokenPair{}, nil
	}

	return pair, nil
}

// Save атомарно сохраняет оба токена одной транзакцией.
func (s *RedisStore) Save(ctx context.Context, pair entities.TokenPair) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave))

	if !pair.IsComplete() {
		log.Error(ctx, ErrorFailedToSave, zap.Error(ErrIncompletePair))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, ErrIncompletePair)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SlotAccessToken, pair.AccessToken, 0)
	pipe.Set(ctx, SlotRefreshToken, pair.RefreshToken, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error(ctx, ErrorFailedToSave, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSave, err)
	}

	return nil
}

// Clear удаляет оба слота. Повторный вызов безопасен.
func (s *RedisStore) Clear(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodClear))

	if err := s.client.Del(ctx, SlotAccessToken, SlotRefreshToken).Err(); err != nil {
		log.Error(ctx, ErrorFailedToClear, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToClear, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
