package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"course-service/internal/auth"
	"course-service/internal/config"
	"course-service/internal/db"
	"course-service/internal/observability"
	"course-service/internal/rabbitmq"
	"course-service/internal/repositories"
	"course-service/internal/telemetry"
	"course-service/internal/ws"
)

const serviceName = "course-service"

func main() {
	if err := run(); err != nil {
		observability.Logger().Fatal("service stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	observability.SetLogger(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	database, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	logger.Info("event publisher ready",
		zap.String("mode", rabbitmq.PublisherMode(publisher)),
		zap.String("noop_reason", rabbitmq.PublisherNoopReason(publisher)),
	)

	events := observability.NewEventEmitter(publisher)
	deps := routerDeps{
		cfg:      cfg,
		db:       database,
		issuer:   auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		hub:      ws.NewHub(events),
		events:   events,
		audit:    telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, serviceName, cfg.Environment),
		users:    repositories.NewUserRepo(database),
		courses:  repositories.NewCourseRepo(database),
		homework: repositories.NewHomeworkRepo(database),
		practice: repositories.NewPracticeRepo(database),
		progress: repositories.NewProgressRepo(database),
		messages: repositories.NewMessageRepo(database),
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr), zap.String("db_driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
