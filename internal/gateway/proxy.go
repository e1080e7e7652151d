package gateway

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/farekit/transit-service/internal/config"
)

// Register mounts the edge routes: CORS, the login rate limit, and reverse
// proxies to the three backing services. The gateway holds no credentials of
// its own; tokens and internal secrets pass through untouched.
func Register(app *fiber.App, cfg *config.Config, limiter *LoginRateLimiter, logger *zap.Logger) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Gateway.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive", "service": "gateway"})
	})

	app.Post("/api/auth/login", limiter.Middleware(), forward(cfg.Services.AuthURL, logger))
	app.Post("/api/auth/signup", limiter.Middleware(), forward(cfg.Services.AuthURL, logger))
	app.All("/api/auth/*", forward(cfg.Services.AuthURL, logger))
	app.All("/api/users/*", forward(cfg.Services.UserURL, logger))
	app.All("/api/users", forward(cfg.Services.UserURL, logger))
	app.All("/api/cards/*", forward(cfg.Services.CardURL, logger))
}

// forward proxies the request to the target service, preserving the original
// path and query. Internal routes are not mounted here, so /api/internal/*
// never leaves through the gateway.
func forward(baseURL string, logger *zap.Logger) fiber.Handler {
	base := strings.TrimRight(baseURL, "/")
	return func(c *fiber.Ctx) error {
		target := base + c.OriginalURL()
		if err := proxy.Do(c, target); err != nil {
			logger.Error("upstream unreachable", zap.String("target", target), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "UPSTREAM_UNAVAILABLE",
					"message": "upstream service unavailable",
				},
			})
		}
		// fasthttp sets its own Server header on proxied responses.
		c.Response().Header.Del(fiber.HeaderServer)
		return nil
	}
}
