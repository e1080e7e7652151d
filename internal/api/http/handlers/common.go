package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/auth"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// requireIdentity fetches the request identity or fails with 401. Routes
// behind auth.RequireAuthenticated always have one; this covers handlers
// reachable without the guard.
func requireIdentity(c *fiber.Ctx) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return auth.Identity{}, apperrors.NewUnauthorized("authentication required")
	}
	return identity, nil
}
