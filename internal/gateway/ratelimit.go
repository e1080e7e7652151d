package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateStore is the slice of the Redis API the limiter needs. Satisfied by
// *redis.Client.
type RateStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
}

// LoginRateLimiter throttles credential endpoints per client IP using a
// fixed window counter in Redis. Counting is shared across gateway replicas.
type LoginRateLimiter struct {
	store  RateStore
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLoginRateLimiter builds the limiter. A limit of zero disables it.
func NewLoginRateLimiter(store RateStore, limit int, window time.Duration, logger *zap.Logger) *LoginRateLimiter {
	return &LoginRateLimiter{store: store, limit: limit, window: window, logger: logger}
}

// Middleware enforces the limit. Redis outages fail open: throttling is a
// protection, not a correctness requirement, and login must keep working.
func (l *LoginRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil || l.store == nil || l.limit <= 0 {
			return c.Next()
		}

		count, err := l.hit(c.UserContext(), c.IP(), c.Path())
		if err != nil {
			l.logger.Warn("rate limit check failed", zap.Error(err))
			return c.Next()
		}
		if count > int64(l.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "RATE_LIMITED",
					"message": "too many attempts, retry later",
				},
			})
		}
		return c.Next()
	}
}

func (l *LoginRateLimiter) hit(ctx context.Context, ip, path string) (int64, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", path, ip)

	count, err := l.store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
