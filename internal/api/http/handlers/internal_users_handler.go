package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/api/dto"
	"github.com/farekit/transit-service/internal/service"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// InternalUsersHandler serves the service-to-service user directory. Routes
// sit behind auth.InternalOnly; responses include the password hash and must
// never be mounted on a public group.
type InternalUsersHandler struct {
	users *service.UserService
}

// NewInternalUsersHandler constructs handler.
func NewInternalUsersHandler(userService *service.UserService) *InternalUsersHandler {
	return &InternalUsersHandler{users: userService}
}

// ByEmail handles GET /api/internal/users/by-email?email=...
func (h *InternalUsersHandler) ByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return apperrors.NewValidationError("email query parameter is required", nil)
	}
	user, err := h.users.InternalFindByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInternalUserResponse(user))
}

// Create handles POST /api/internal/users/create.
func (h *InternalUsersHandler) Create(c *fiber.Ctx) error {
	var req dto.InternalCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	actor, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.InternalCreate(c.UserContext(), actor, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewInternalUserResponse(user))
}

// Verify handles POST /api/internal/users/verify.
func (h *InternalUsersHandler) Verify(c *fiber.Ctx) error {
	var req dto.InternalVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.InternalVerify(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInternalUserResponse(user))
}
