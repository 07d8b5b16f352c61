package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jungle/notifications-service/internal/config"
	"github.com/jungle/notifications-service/internal/pipeline"
	"github.com/jungle/notifications-service/internal/platform/postgres"
	"github.com/jungle/notifications-service/internal/platform/rabbitmq"
	"github.com/jungle/notifications-service/internal/realtime"
	"github.com/jungle/notifications-service/internal/service"
	"github.com/jungle/notifications-service/internal/service/auth"
	"github.com/jungle/notifications-service/internal/store"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	participantStore  store.ParticipantStore
	notificationStore store.NotificationStore

	jwtService          auth.JWTService
	dispatcher          service.Dispatcher
	notificationService service.NotificationService

	gateway   *realtime.Gateway
	processor *pipeline.Processor
	consumer  *rabbitmq.Consumer
}

// newApplication wires stores, services, the realtime gateway and the
// consumer. The database must already be reachable and migrated.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, opts ...rabbitmq.Option) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.participantStore = postgres.NewPostgresParticipantStore(db, logger)
	app.notificationStore = postgres.NewPostgresNotificationStore(db, logger)

	app.dispatcher, err = service.NewDispatcher(
		app.participantStore,
		app.notificationStore,
		store.NewTxRunner(db),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	app.notificationService, err = service.NewNotificationService(app.notificationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	app.gateway = realtime.NewGateway(cfg.Realtime, app.jwtService, realtime.NewRegistry(), logger)

	app.processor, err = pipeline.NewProcessor(app.dispatcher, app.gateway, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline processor: %w", err)
	}

	app.consumer, err = rabbitmq.NewConsumer(cfg.Broker, app.processor, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue consumer: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP and websocket traffic and supervises the consumer until ctx
// is cancelled or the HTTP listener fails.
func (app *application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()

		app.gateway.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return superviseConsumer(gctx, app.consumer.Run, newReconnectBackoff(app.config.Broker), app.logger)
	})

	err := g.Wait()
	app.logger.Info("server shutdown completed")
	return err
}

// cleanup releases resources owned by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
