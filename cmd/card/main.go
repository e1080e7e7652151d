package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/farekit/transit-service/internal/api/http"
	"github.com/farekit/transit-service/internal/api/http/handlers"
	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/config"
	"github.com/farekit/transit-service/internal/events"
	"github.com/farekit/transit-service/internal/observability"
	"github.com/farekit/transit-service/internal/persistence"
	"github.com/farekit/transit-service/internal/repository"
	"github.com/farekit/transit-service/internal/service"
	"github.com/farekit/transit-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "card-service")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	codec, err := auth.NewCodec(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	cardRepo := repository.NewCardRepository(pg.PoolHandle())
	cardService := service.NewCardService(cardRepo, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler("card-service", cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
	})
	cardsHandler := handlers.NewCardsHandler(cardService)
	internalHandler := handlers.NewInternalCardsHandler(cardService)

	httptransport.RegisterCardRoutes(app, codec, cfg.Internal.Secret, cardsHandler, internalHandler, healthHandler)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
