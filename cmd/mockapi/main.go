// Команда mockapi поднимает локальную заглушку удаленного API Subtrak
// для разработки клиентского ядра: аутентификация с выдачей JWT,
// одноразовые ротационные токены обновления и минимальные данные подписок.
package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/domain/entities"
	"subtrak/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvListenAddress = "MOCKAPI_LISTEN_ADDRESS"
	EnvSigningKey    = "MOCKAPI_SIGNING_KEY"
)

// Значения по умолчанию.
const (
	DefaultListenAddress = "localhost:8000"
	DefaultSigningKey    = "mockapi-dev-signing-key"

	accessTokenTTL = 15 * time.Minute
)

// Константы для логирования.
const (
	LogStarting     = "mockapi starting"
	ErrStartServer  = "failed to start mockapi server"
	ErrHashPassword = "failed to hash password"
)

// account - зарегистрированный пользователь заглушки.
type account struct {
	user         entities.User
	passwordHash []byte
}

// state - состояние заглушки в памяти.
type state struct {
	mu            sync.Mutex
	accounts      map[string]*account // по email
	refreshOwners map[string]int64    // одноразовый refresh token -> user id
	nextUserID    int64
	signingKey    []byte
}

func newState(signingKey []byte) *state {
	return &state{
		accounts:      make(map[string]*account),
		refreshOwners: make(map[string]int64),
		nextUserID:    1,
		signingKey:    signingKey,
	}
}

// issue выдает пару токенов: подписанный JWT доступа и одноразовый
// токен обновления.
func (s *state) issue(userID int64) (dto.TokenResponse, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	refresh := uuid.New().String()
	s.refreshOwners[refresh] = userID

	return dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// authenticate проверяет подписанный JWT доступа и возвращает владельца.
func (s *state) authenticate(header string) (*account, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, false
	}
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, false
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, false
	}
	for _, acc := range s.accounts {
		if acc.user.ID == userID {
			return acc, true
		}
	}
	return nil, false
}

func main() {
	if err := logger.InitGlobalLogger(logger.Development); err != nil {
		panic(err)
	}
	ctx := logger.NewRequestIDContext(context.Background(), "")
	log := logger.Log(ctx)

	address := os.Getenv(EnvListenAddress)
	if address == "" {
		address = DefaultListenAddress
	}
	signingKey := os.Getenv(EnvSigningKey)
	if signingKey == "" {
		signingKey = DefaultSigningKey
	}

	st := newState([]byte(signingKey))
	app := fiber.New()

	apiV1 := app.Group("/api/v1")
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", st.handleRegister)
	authRoutes.Post("/login", st.handleLogin)
	authRoutes.Post("/refresh", st.handleRefresh)
	authRoutes.Post("/logout", st.handleLogout)
	authRoutes.Get("/me", st.handleMe)

	apiV1.Get("/subscriptions", st.requireAuth(func(c fiber.Ctx) error {
		return c.JSON([]dto.Subscription{})
	}))
	apiV1.Get("/dashboard/summary", st.requireAuth(func(c fiber.Ctx) error {
		return c.JSON(dto.DashboardSummary{})
	}))

	log.Info(ctx, LogStarting, zap.String("address", address))
	if err := app.Listen(address); err != nil {
		log.Fatal(ctx, ErrStartServer, zap.Error(err))
	}
}

// requireAuth пропускает запрос только с действительным токеном доступа.
func (s *state) requireAuth(next fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		s.mu.Lock()
		_, ok := s.authenticate(c.Get("Authorization"))
		s.mu.Unlock()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		return next(c)
	}
}

func (s *state) handleRegister(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrHashPassword})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Email]; exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "user already exists"})
	}

	acc := &account{
		user: entities.User{
			ID:        s.nextUserID,
			Email:     req.Email,
			Name:      req.Name,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		},
		passwordHash: hash,
	}
	s.nextUserID++
	s.accounts[req.Email] = acc

	pair, err := s.issue(acc.user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(pair)
}

func (s *state) handleLogin(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[req.Email]
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	pair, err := s.issue(acc.user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(pair)
}

// handleRefresh обменивает одноразовый токен обновления на новую пару.
// Потребленный токен немедленно отзывается.
func (s *state) handleRefresh(c fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind().JSON(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refresh_token is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refreshOwners[req.RefreshToken]
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid refresh token"})
	}
	delete(s.refreshOwners, req.RefreshToken)

	pair, err := s.issue(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(pair)
}

func (s *state) handleLogout(c fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.Bind().JSON(&req); err == nil && req.RefreshToken != "" {
		s.mu.Lock()
		delete(s.refreshOwners, req.RefreshToken)
		s.mu.Unlock()
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *state) handleMe(c fiber.Ctx) error {
	s.mu.Lock()
	acc, ok := s.authenticate(c.Get("Authorization"))
	s.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}
	return c.JSON(acc.user)
}
