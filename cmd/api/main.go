package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventsapp/internal/adapter/database/postgres"
	pgrepo "eventsapp/internal/adapter/database/postgres/repository"
	"eventsapp/internal/adapter/database/sqlite"
	sqliterepo "eventsapp/internal/adapter/database/sqlite/repository"
	"eventsapp/internal/adapter/http/handler"
	"eventsapp/internal/adapter/http/routes"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/service"
	"eventsapp/pkg/auth"
	"eventsapp/pkg/config"
	"eventsapp/pkg/response"
	"eventsapp/pkg/tracing"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := config.NewAppLogger("eventsapp", cfg.IsProduction())

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := tracing.InitTelemetry(tracing.TelemetryConfig{
		ServiceName:    "eventsapp",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := tracing.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	users, events, closeDB, err := openRepositories(ctx, cfg)

	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	defer closeDB()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	authSvc := service.NewAuthService(users)
	userSvc := service.NewUserService(users, events)
	eventSvc := service.NewEventService(events)

	handlers := routes.HandlersConfig{
		AuthHandler:  handler.NewAuthHandler(authSvc, tokens, cfg.JWTCookieExpiresIn),
		UserHandler:  handler.NewUserHandler(userSvc, users),
		EventHandler: handler.NewEventHandler(eventSvc, events),
		Tokens:       tokens,
		Users:        users,
	}

	var cache *response.ResponseCache

	if cfg.CacheEnabled {
		store := newCacheStore(cfg, logger.Zap())
		cache = response.NewResponseCache(store, cfg.CacheTTL, logger.Zap(), metrics)
	}

	router := routes.SetupRouter(handlers, cfg, metrics, logger, cache)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Zap().Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
			zap.Bool("cache_enabled", cfg.CacheEnabled))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Zap().Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Zap().Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Zap().Error("Forced shutdown", zap.Error(err))
	}
}

// openRepositories selects the adapter: postgres when DATABASE_URL is set,
// the embedded sqlite file otherwise.
func openRepositories(ctx context.Context, cfg *config.AppConfig) (port.UserRepository, port.EventRepository, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewDB(ctx, cfg.DatabaseURL, "db/migrations/postgres")

		if err != nil {
			return nil, nil, nil, err
		}

		return pgrepo.NewUserRepository(db), pgrepo.NewEventRepository(db), db.Close, nil
	}

	db, err := sqlite.NewDB(cfg.DatabasePath, "db/migrations/sqlite")

	if err != nil {
		return nil, nil, nil, err
	}

	return sqliterepo.NewUserRepository(db), sqliterepo.NewEventRepository(db), func() { db.Close() }, nil
}

func newCacheStore(cfg *config.AppConfig, logger *zap.Logger) response.Store {
	if cfg.RedisURL != "" {
		store, err := response.NewRedisStore(cfg.RedisURL, logger)

		if err == nil {
			return store
		}

		logger.Warn("Redis unavailable, falling back to in-memory response cache", zap.Error(err))
	}

	return response.NewMemoryStore()
}
