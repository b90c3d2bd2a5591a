package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"subtrak/internal/client/ports/nav"
	"subtrak/internal/client/ports/tokens"
	"subtrak/pkg/logger"
)

// Константы для логирования.
const (
	LogUnauthorizedRetry  = "authorized transport: 401 received, refreshing and retrying"
	LogProactiveRefresh   = "authorized transport: access token near expiry, refreshing"
	LogSessionTeardown    = "authorized transport: refresh failed, tearing session down"
	ErrorLoadTokens       = "failed to load tokens before request"
	ErrorTeardownClearing = "failed to clear token store during teardown"
)

// teardownFlightKey - ключ объединения одновременных разборов сессии.
const teardownFlightKey = "teardown"

// AuthorizedTransport - http.RoundTripper, оборачивающий каждый исходящий
// запрос: прикрепляет токен доступа, распознает отказ в авторизации и
// управляет протоколом обновления с однократным повтором запроса.
type AuthorizedTransport struct {
	base      http.RoundTripper
	store     tokens.Store
	refresher *Refresher
	navigator nav.Navigator
	leeway    time.Duration

	// onExpired уведомляет менеджер сессии о разборе. Может быть nil.
	onExpired func(ctx context.Context)

	teardowns singleflight.Group
	now       func() time.Time
}

// NewAuthorizedTransport создает новый авторизованный транспорт.
func NewAuthorizedTransport(base http.RoundTripper, store tokens.Store, refresher *Refresher, navigator nav.Navigator, leeway time.Duration) *AuthorizedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthorizedTransport{
		base:      base,
		store:     store,
		refresher: refresher,
		navigator: navigator,
		leeway:    leeway,
		now:       time.Now,
	}
}

// OnSessionExpired регистрирует обработчик разбора сессии.
// Вызывается до выполнения первого запроса.
func (t *AuthorizedTransport) OnSessionExpired(fn func(ctx context.Context)) {
	t.onExpired = fn
}

// RoundTrip выполняет запрос с прикрепленным токеном доступа.
// На 401 выполняется ровно одно обновление и ровно один повтор; исход
// повтора возвращается вызывающему без изменений. Любой иной ответ,
// включая сетевые ошибки и таймауты, проходит насквозь.
func (t *AuthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	log := logger.Log(ctx)

	pair, err := t.store.Load(ctx)
	if err != nil {
		log.Error(ctx, ErrorLoadTokens, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorLoadTokens, err)
	}

	accessToken := pair.AccessToken

	// Упреждающее обновление: токен с близким exp обменивается до отправки,
	// тем же единственным обменом, что и обновления по 401.
	if accessToken != "" && expiresWithin(accessToken, t.leeway, t.now()) {
		log.Debug(ctx, LogProactiveRefresh)
		renewed, refreshErr := t.refresher.Refresh(ctx)
		switch {
		case refreshErr == nil:
			accessToken = renewed.AccessToken
		case errors.Is(refreshErr, ErrNoRefreshToken):
			// Нечем обновлять: отправляем как есть, сервер решит.
		default:
			return nil, t.teardown(ctx, refreshErr)
		}
	}

	attempt := cloneRequest(req, accessToken)

	resp, err := t.base.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Отказ в авторизации: однократное обновление и однократный повтор.
	log.Info(ctx, LogUnauthorizedRetry, zap.String("url", req.URL.Path))
	drainBody(resp)

	renewed, refreshErr := t.refresher.Refresh(ctx)
	if refreshErr != nil {
		return nil, t.teardown(ctx, refreshErr)
	}

	retry, err := rewindRequest(req, renewed.AccessToken)
	if err != nil {
		return nil, err
	}

	return t.base.RoundTrip(retry)
}

// teardown разбирает сессию: очищает хранилище токенов, уведомляет менеджер
// сессии и запрашивает переход на экран входа. Одновременные разборы
// объединяются в один.
func (t *AuthorizedTransport) teardown(ctx context.Context, cause error) error {
	log := logger.Log(ctx)
	log.Warn(ctx, LogSessionTeardown, zap.Error(cause))

	_, _, _ = t.teardowns.Do(teardownFlightKey, func() (any, error) {
		clearCtx := context.WithoutCancel(ctx)
		if err := t.store.Clear(clearCtx); err != nil {
			log.Error(ctx, ErrorTeardownClearing, zap.Error(err))
		}
		if t.onExpired != nil {
			t.onExpired(clearCtx)
		}
		if t.navigator != nil {
			t.navigator.NavigateTo(clearCtx, nav.PathLogin)
		}
		return nil, nil
	})

	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

// cloneRequest возвращает копию запроса с прикрепленным токеном доступа.
// Исходный запрос не модифицируется, как требует контракт RoundTripper.
func cloneRequest(req *http.Request, accessToken string) *http.Request {
	clone := req.Clone(req.Context())
	if accessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return clone
}

// rewindRequest восстанавливает тело запроса для единственного повтора.
func rewindRequest(req *http.Request, accessToken string) (*http.Request, error) {
	clone := cloneRequest(req, accessToken)
	if req.Body == nil {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrBodyNotReplayable)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	clone.Body = body
	return clone, nil
}

// drainBody дочитывает и закрывает тело ответа для переиспользования соединения.
func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
