package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/domain"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

const identityKey = "auth_identity"

// HeaderInternalSecret authenticates service-to-service calls.
const HeaderInternalSecret = "X-Internal-Secret"

// HeaderUserID conveys the acting subject on internal calls.
const HeaderUserID = "X-User-Id"

// Authenticate extracts a bearer token and, when it verifies, binds the
// caller's identity to the request. Authentication here is optional: a
// missing, malformed or invalid credential leaves the request anonymous and
// handling continues. Rejecting anonymous access to protected routes is the
// job of the guards and handlers downstream.
func Authenticate(codec *Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Next()
		}

		claims, err := codec.Parse(parts[1])
		if err != nil {
			// Deliberate: parse failures degrade to anonymous.
			return c.Next()
		}

		c.Locals(identityKey, Identity{
			Subject: claims.Subject,
			Role:    claims.NormalizedRole(),
		})
		return c.Next()
	}
}

// IdentityFromContext retrieves the authenticated caller, if any.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	return identity, ok
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers without admin authority.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !identity.Role.IsAdmin() {
			return apperrors.NewAccessDenied("admin role required")
		}
		return c.Next()
	}
}

// InternalOnly gates the service-to-service channel on the shared secret.
// A mismatch fails before the handler runs. On success the request carries an
// admin-equivalent identity whose subject comes from X-User-Id; the elevation
// lasts for this request only.
func InternalOnly(expectedSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get(HeaderInternalSecret)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expectedSecret)) != 1 {
			return apperrors.NewForbidden("invalid internal secret")
		}

		c.Locals(identityKey, Identity{
			Subject: c.Get(HeaderUserID),
			Role:    domain.RoleAdmin,
		})
		return c.Next()
	}
}
