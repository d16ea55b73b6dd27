package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/consultancy-scheduler/internal/cache"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/config"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/lib/jwt"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/migrations"
	authservice "github.com/magabrotheeeer/consultancy-scheduler/internal/services/auth"
	completerservice "github.com/magabrotheeeer/consultancy-scheduler/internal/services/completer"
	scheduleservice "github.com/magabrotheeeer/consultancy-scheduler/internal/services/schedule"
	"github.com/magabrotheeeer/consultancy-scheduler/internal/storage/repository"
)

// App собирает HTTP-сервер, хранилище, кеш и фоновый сервис закрытия записей.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	completer *completerservice.CompleterService
}

// New создаёт приложение: подключает хранилище и кеш, применяет миграции
// и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	migrationsPath := cfg.MigrationsPath
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err = migrations.Run(db.DB, migrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker, cfg.MinPasswordLen)
	scheduleService := scheduleservice.NewScheduleService(db, cacheRedis, logger)
	completerService := completerservice.NewCompleterService(db, logger, 5*time.Minute)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, scheduleService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		completer: completerService,
	}, nil
}

// Run запускает сервер и фоновый сервис, блокируясь до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.completer.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
