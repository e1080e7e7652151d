package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/farekit/transit-service/internal/api/http"
	"github.com/farekit/transit-service/internal/api/http/handlers"
	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/client"
	"github.com/farekit/transit-service/internal/config"
	"github.com/farekit/transit-service/internal/observability"
	"github.com/farekit/transit-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "auth-service")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	codec, err := auth.NewCodec(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}

	userClient := client.NewUserClient(cfg.Services.UserURL, cfg.Internal.Secret)
	authService := service.NewAuthService(userClient, codec, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	// The bearer extractor runs even here: an admin signing up another admin
	// authenticates with a token on the public signup route.
	app.Use(auth.Authenticate(codec))

	healthHandler := handlers.NewHealthHandler("auth-service", cfg.App.Version, nil)
	authHandler := handlers.NewAuthHandler(authService)
	httptransport.RegisterAuthRoutes(app, authHandler, healthHandler)

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
