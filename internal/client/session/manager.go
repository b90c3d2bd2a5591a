// Package session содержит менеджер состояния сессии процесса.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/domain/entities"
	"subtrak/internal/client/ports/nav"
	"subtrak/internal/client/ports/tokens"
	"subtrak/pkg/logger"
)

// Константы для логирования.
const (
	LogProbeStarted   = "session: probing stored credentials"
	LogProbeAnonymous = "session: no stored tokens, resolving anonymous"
	LogProbeResolved  = "session: resolved"
	LogLogin          = "session: login"
	LogRegister       = "session: register"
	LogLogout         = "session: logout"
	LogExpired        = "session: expired by transport"

	ErrorLoginFailed    = "failed to login"
	ErrorRegisterFailed = "failed to register"
	ErrorProbeRejected  = "stored credentials rejected, clearing session"
	ErrorStoreTokens    = "failed to persist token pair"
	ErrorClearTokens    = "failed to clear token store"
	WarnRemoteLogout    = "best-effort remote logout failed"
)

// Manager владеет единственной ячейкой состояния сессии процесса.
// Все изменения проходят через документированные операции; прямой записи
// состояния извне нет, чем обеспечиваются инварианты сессии.
type Manager struct {
	mu      sync.RWMutex
	session entities.Session

	store     tokens.Store
	authed    *rest.Client
	bare      *rest.Client
	navigator nav.Navigator
}

// NewManager создает менеджер сессии в состоянии loading.
// authed - клиент поверх авторизованного транспорта, bare - клиент без
// авторизации для login/register: отказ этих запросов не должен запускать
// протокол обновления действующей сессии.
func NewManager(store tokens.Store, authed, bare *rest.Client, navigator nav.Navigator) *Manager {
	return &Manager{
		session:   entities.Session{Status: entities.SessionLoading},
		store:     store,
		authed:    authed,
		bare:      bare,
		navigator: navigator,
	}
}

// Current возвращает полностью разрешенное состояние сессии.
func (m *Manager) Current() entities.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Bootstrap выполняет стартовую проверку сохраненных учетных данных.
// Без токена доступа сессия немедленно анонимна; иначе проекция
// пользователя запрашивается через авторизованный транспорт.
func (m *Manager) Bootstrap(ctx context.Context) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogProbeStarted)

	pair, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("session bootstrap: %w", err)
	}
	if pair.AccessToken == "" {
		log.Info(ctx, LogProbeAnonymous)
		m.set(entities.Session{Status: entities.SessionAnonymous})
		return nil
	}

	return m.probe(ctx)
}

// RefreshUserProjection повторно запрашивает проекцию пользователя.
func (m *Manager) RefreshUserProjection(ctx context.Context) error {
	return m.probe(ctx)
}

// probe запрашивает "who am I" и разрешает сессию по результату.
// Отказ пробы означает непригодные учетные данные: хранилище очищается.
func (m *Manager) probe(ctx context.Context) error {
	log := logger.Log(ctx)

	var user entities.User
	if err := m.authed.Get(ctx, "/auth/me", &user); err != nil {
		log.Warn(ctx, ErrorProbeRejected, zap.Error(err))
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			log.Error(ctx, ErrorClearTokens, zap.Error(clearErr))
		}
		m.set(entities.Session{Status: entities.SessionAnonymous})
		return nil
	}

	m.set(entities.Session{Status: entities.SessionAuthenticated, User: &user})
	log.Info(ctx, LogProbeResolved,
		zap.String("status", entities.SessionAuthenticated.String()),
		zap.Int64("user_id", user.ID))
	return nil
}

// Login выполняет вход и разрешает сессию повторной пробой.
// При ошибке состояние сессии и хранилище не изменяются.
func (m *Manager) Login(ctx context.Context, req dto.LoginRequest) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogLogin)

	var resp dto.TokenResponse
	if err := m.bare.Post(ctx, "/auth/login", req, &resp); err != nil {
		log.Error(ctx, ErrorLoginFailed, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorLoginFailed, err)
	}

	return m.adopt(ctx, resp)
}

// Register регистрирует пользователя и разрешает сессию повторной пробой.
func (m *Manager) Register(ctx context.Context, req dto.RegisterRequest) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogRegister)

	var resp dto.TokenResponse
	if err := m.bare.Post(ctx, "/auth/register", req, &resp); err != nil {
		log.Error(ctx, ErrorRegisterFailed, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorRegisterFailed, err)
	}

	return m.adopt(ctx, resp)
}

// adopt сохраняет выданную пару и заполняет проекцию пользователя.
func (m *Manager) adopt(ctx context.Context, resp dto.TokenResponse) error {
	log := logger.Log(ctx)

	pair := entities.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if err := m.store.Save(ctx, pair); err != nil {
		log.Error(ctx, ErrorStoreTokens, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorStoreTokens, err)
	}

	return m.probe(ctx)
}

// Logout разбирает сессию локально и запрашивает переход на экран входа.
// Удаленный отзыв токена выполняется по возможности и не влияет на исход.
// Идемпотентен: повторный выход из анонимной сессии безопасен.
func (m *Manager) Logout(ctx context.Context) error {
	log := logger.Log(ctx)
	log.Info(ctx, LogLogout)

	if pair, err := m.store.Load(ctx); err == nil && pair.RefreshToken != "" {
		revoke := dto.LogoutRequest{RefreshToken: pair.RefreshToken}
		if err := m.bare.Post(ctx, "/auth/logout", revoke, nil); err != nil {
			log.Warn(ctx, WarnRemoteLogout, zap.Error(err))
		}
	}

	var clearErr error
	if err := m.store.Clear(ctx); err != nil {
		log.Error(ctx, ErrorClearTokens, zap.Error(err))
		clearErr = err
	}

	m.set(entities.Session{Status: entities.SessionAnonymous})
	if m.navigator != nil {
		m.navigator.NavigateTo(ctx, nav.PathLogin)
	}
	return clearErr
}

// Expire переводит сессию в anonymous после разбора транспортом.
// Хранилище к этому моменту уже очищено транспортом.
func (m *Manager) Expire(ctx context.Context) {
	logger.Log(ctx).Warn(ctx, LogExpired)
	m.set(entities.Session{Status: entities.SessionAnonymous})
}

// set публикует полностью разрешенное состояние сессии.
func (m *Manager) set(s entities.Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}
