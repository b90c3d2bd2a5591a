package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"subtrak/internal/client/domain/entities"
	"subtrak/internal/client/ports/tokens"
	"subtrak/pkg/logger"
)

// Константы для логирования.
const (
	LogRefreshStarted   = "refresh protocol: exchanging refresh token"
	LogRefreshSucceeded = "refresh protocol: token pair renewed"

	ErrorRefreshRequest  = "refresh exchange request failed"
	ErrorRefreshRejected = "refresh token rejected by server"
	ErrorRefreshDecode   = "failed to decode refresh response"
	ErrorRefreshPersist  = "failed to persist renewed token pair"
)

// refreshFlightKey - ключ единственного одновременного обмена на сессию.
const refreshFlightKey = "refresh"

// refreshRequest - тело запроса обмена токена.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshResponse - тело ответа обмена токена.
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresher реализует протокол обновления токенов.
// Обмен выполняет голый HTTP-клиент: запрос обновления не должен проходить
// через авторизованный транспорт.
type Refresher struct {
	store      tokens.Store
	httpClient *http.Client
	refreshURL string
	group      singleflight.Group
}

// NewRefresher создает новый протокол обновления.
func NewRefresher(store tokens.Store, httpClient *http.Client, refreshURL string) *Refresher {
	return &Refresher{
		store:      store,
		httpClient: httpClient,
		refreshURL: refreshURL,
	}
}

// Refresh обменивает токен обновления на новую пару и атомарно сохраняет ее.
// Все одновременные вызовы объединяются в один обмен: токен обновления
// одноразовый на стороне сервера, и все ожидающие получают общий исход.
// Разбор сессии при неудаче - ответственность вызывающего.
func (r *Refresher) Refresh(ctx context.Context) (entities.TokenPair, error) {
	result, err, _ := r.group.Do(refreshFlightKey, func() (any, error) {
		// Обмен не должен обрываться отменой одного из ожидающих запросов.
		return r.exchange(context.WithoutCancel(ctx))
	})
	if err != nil {
		return entities.TokenPair{}, err
	}
	return result.(entities.TokenPair), nil
}

// exchange выполняет один сетевой обмен токена обновления.
func (r *Refresher) exchange(ctx context.Context) (entities.TokenPair, error) {
	log := logger.Log(ctx)
	log.Debug(ctx, LogRefreshStarted)

	current, err := r.store.Load(ctx)
	if err != nil {
		return entities.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if current.RefreshToken == "" {
		return entities.TokenPair{}, ErrNoRefreshToken
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return entities.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.refreshURL, bytes.NewReader(body))
	if err != nil {
		return entities.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Error(ctx, ErrorRefreshRequest, zap.Error(err))
		return entities.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Error(ctx, ErrorRefreshRejected, zap.Int("status", resp.StatusCode))
		return entities.TokenPair{}, fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var renewed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil {
		log.Error(ctx, ErrorRefreshDecode, zap.Error(err))
		return entities.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	pair := entities.TokenPair{
		AccessToken:  renewed.AccessToken,
		RefreshToken: renewed.RefreshToken,
	}
	if err := r.store.Save(ctx, pair); err != nil {
		log.Error(ctx, ErrorRefreshPersist, zap.Error(err))
		return entities.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	log.Debug(ctx, LogRefreshSucceeded)
	return pair, nil
}
