// Команда client запускает клиентское ядро Subtrak: восстанавливает сессию
// из сохраненных токенов и предоставляет авторизованный доступ к API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"subtrak/internal/client/adapters/cache"
	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/adapters/tokenstore"
	"subtrak/internal/client/app/services"
	"subtrak/internal/client/config"
	"subtrak/internal/client/domain/entities"
	"subtrak/internal/client/invalidation"
	"subtrak/internal/client/ports/nav"
	"subtrak/internal/client/session"
	"subtrak/internal/client/transport"
	"subtrak/pkg/logger"
	"subtrak/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "CLIENT_LOGGER_MODE"
	EnvLoggerLevel = "CLIENT_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrCreateTokenStore     = "failed to create token store"
	ErrCreateCache          = "failed to create cache"
	ErrBootstrapSession     = "failed to bootstrap session"
	ErrShutdownHook         = "shutdown hook failed"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений о ходе работы.
const (
	LogClientStarted       = "subtrak client started"
	LogInitTokenStore      = "initializing token store"
	LogInitCache           = "initializing cache"
	LogInitTransport       = "initializing authorized transport"
	LogInitSession         = "initializing session"
	LogSessionResolved     = "session resolved"
	LogNavigate            = "navigation requested"
	LogDashboardPrefetched = "dashboard summary prefetched"
	WarnPrefetchDashboard  = "failed to prefetch dashboard summary"

	LogClosingStore = "closing token store"
	LogClosingCache = "closing cache connection"
	LogShutdownDone = "subtrak client shutdown complete"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogClientStarted, zap.String("log_level", cfg.Logging.Level))

		log.Info(ctx, LogInitTokenStore)
		store, err := tokenstore.NewRedisStore(ctx, &cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrCreateTokenStore, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitCache)
		readCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrCreateCache, zap.Error(err))
			exitCode = 1
			return
		}

		// Навигация здесь - собеседник из слоя отображения: запросы
		// перехода только логируются.
		navigator := nav.Func(func(ctx context.Context, path string) {
			log.Info(ctx, LogNavigate, zap.String("path", path))
		})

		log.Info(ctx, LogInitTransport)
		bare := &http.Client{Timeout: cfg.API.Timeout}
		refresher := transport.NewRefresher(store, bare, cfg.API.BaseURL+"/auth/refresh")
		authTransport := transport.NewAuthorizedTransport(nil, store, refresher, navigator, cfg.API.RefreshLeeway)
		authed := &http.Client{Transport: authTransport, Timeout: cfg.API.Timeout}

		log.Info(ctx, LogInitSession)
		manager := session.NewManager(store,
			rest.NewClient(authed, cfg.API.BaseURL),
			rest.NewClient(bare, cfg.API.BaseURL),
			navigator)
		authTransport.OnSessionExpired(manager.Expire)

		if err := manager.Bootstrap(ctx); err != nil {
			log.Error(ctx, ErrBootstrapSession, zap.Error(err))
			exitCode = 1
			return
		}

		current := manager.Current()
		log.Info(ctx, LogSessionResolved, zap.String("status", current.Status.String()))

		// Панель управления - первый экран приложения: прогреваем ее кэш.
		if current.Status == entities.SessionAuthenticated {
			graph := invalidation.NewGraph(readCache)
			billing := services.NewBillingService(rest.NewClient(authed, cfg.API.BaseURL), readCache, graph)
			if summary, err := billing.Dashboard(ctx); err != nil {
				log.Warn(ctx, WarnPrefetchDashboard, zap.Error(err))
			} else {
				log.Info(ctx, LogDashboardPrefetched,
					zap.Float64("total_monthly_cost", summary.TotalMonthlyCost),
					zap.Int("active_subscriptions", summary.ActiveSubscriptions))
			}
		}

		errs := shutdown.Wait(cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingStore)
				return store.Close()
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingCache)
				return readCache.Close()
			},
		)
		for _, err := range errs {
			log.Error(ctx, ErrShutdownHook, zap.Error(err))
		}

		log.Info(ctx, LogShutdownDone)
	}()

	os.Exit(exitCode)
}
