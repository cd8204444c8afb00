// Package projectsapi собирает приложение: хранилище, миграции, кэш,
// брокер сообщений, сервисы, маршруты и фоновую проверку истечения проектов.
package projectsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/mrdekan/projects-api-test-task/internal/cache"
	"github.com/mrdekan/projects-api-test-task/internal/config"
	"github.com/mrdekan/projects-api-test-task/internal/lib/jwt"
	"github.com/mrdekan/projects-api-test-task/internal/migrations"
	"github.com/mrdekan/projects-api-test-task/internal/rabbitmq"
	authservice "github.com/mrdekan/projects-api-test-task/internal/services/auth"
	projectservice "github.com/mrdekan/projects-api-test-task/internal/services/project"
	sweeperservice "github.com/mrdekan/projects-api-test-task/internal/services/sweeper"
	"github.com/mrdekan/projects-api-test-task/internal/storage/repository"
)

type App struct {
	server  *http.Server
	sweeper *sweeperservice.SweeperService
	logger  *slog.Logger
	db      *repository.Storage
	conn    *amqp.Connection
	ch      *amqp.Channel
}

// waitForDB дожидается готовности схемы: фоновая проверка истечения
// не должна стартовать до того, как появилась таблица projects.
func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = waitForDB(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер опционален: без него события истечения просто не публикуются.
	var conn *amqp.Connection
	var ch *amqp.Channel
	if cfg.RabbitMQURL != "" {
		conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err = rabbitmq.SetupChannel(conn, rabbitmq.GetProjectQueues())
		if err != nil {
			return nil, err
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	projectService := projectservice.NewProjectService(db, cacheRedis, logger, cfg.ProjectTTL)
	sweeperService := sweeperservice.NewSweeperService(db, logger, cfg.SweepInterval)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, projectService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		sweeper: sweeperService,
		logger:  logger,
		db:      db,
		conn:    conn,
		ch:      ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Run(ctx, a.ch)

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
		a.closeResources()
		return err
	}
}

func (a *App) closeResources() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", slog.Any("err", err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", slog.Any("err", err))
		}
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}
}
