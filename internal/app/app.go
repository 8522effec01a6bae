package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openshelf-io/catalog/database"
	"github.com/openshelf-io/catalog/internal/cache"
	"github.com/openshelf-io/catalog/internal/config"
	"github.com/openshelf-io/catalog/internal/eventbus"
	"github.com/openshelf-io/catalog/internal/middleware"
)

type App struct {
	config          *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	countCache      *cache.CountCache
	catalogEventBus *eventbus.CatalogEventBus
}

// New wires the database pool, count cache and event bus from configuration.
func New(logger *slog.Logger, config *config.Config) (*App, error) {
	dbConfig, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=disable",
		config.DatabaseConfig.DatabaseUser,
		config.DatabaseConfig.DatabasePassword,
		config.DatabaseConfig.DatabaseHost,
		config.DatabaseConfig.DatabasePort,
		config.DatabaseConfig.DatabaseName,
	))
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = config.DatabaseConfig.DatabasePoolMaxConnections
	dbConfig.MinConns = config.DatabaseConfig.DatabasePoolMinConnections
	dbConfig.MaxConnLifetime = time.Hour * time.Duration(config.DatabaseConfig.DatabasePoolMaxConnectionLifetime)

	connPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		return nil, err
	}

	catalogEventBus, err := eventbus.NewCatalogEventBus(config, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config:          config,
		logger:          logger,
		pool:            connPool,
		countCache:      cache.NewCountCache(config, logger),
		catalogEventBus: catalogEventBus,
	}, nil
}

// Start runs pending migrations and serves the API until the context is
// cancelled or the server fails.
func (a *App) Start(ctx context.Context) error {
	database.RunGooseMigrations(a.logger, a.pool)

	middlewares := middleware.CreateStack(
		middleware.Logging(a.logger),
		middleware.WithDBConnection(a.logger, a.pool),
		middleware.CORSMiddleware(a.config.AppConfig.AllowedOrigins),
	)
	router := a.loadRoutes()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.config.AppConfig.Address, a.config.AppConfig.Port),
		Handler: middlewares(router),
	}

	errCh := make(chan error, 1)

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to listen and serve: %w", err)
		}

		close(errCh)
	}()

	a.logger.Info("server running",
		slog.String("address", a.config.AppConfig.Address),
		slog.Int("port", a.config.AppConfig.Port),
	)

	select {
	case <-ctx.Done():
		break
	case err := <-errCh:
		return err
	}

	sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()

	err := srv.Shutdown(sCtx)

	a.catalogEventBus.Close()
	a.countCache.Close()
	a.pool.Close()

	return err
}
