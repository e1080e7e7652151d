package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/api/dto"
	"github.com/farekit/transit-service/internal/service"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// UsersHandler exposes profile CRUD and the caller's card operations.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return c.JSON(out)
}

// Create handles POST /api/users (admin route).
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Create(c.UserContext(), caller, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), caller, c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id (admin route).
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), caller.Subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// UpdateMe handles PUT /api/users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Update(c.UserContext(), caller, caller.Subject, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ChangeMyPassword handles PUT /api/users/me/password.
func (h *UsersHandler) ChangeMyPassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	if err := h.users.ChangePassword(c.UserContext(), caller.Subject, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListMyCards handles GET /api/users/me/cards.
func (h *UsersHandler) ListMyCards(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	cards, err := h.users.ListMyCards(c.UserContext(), caller.Subject)
	if err != nil {
		return err
	}
	return c.JSON(cards)
}

// AddMyCard handles POST /api/users/me/cards.
func (h *UsersHandler) AddMyCard(c *fiber.Ctx) error {
	var req dto.AddCardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	card, err := h.users.AddMyCard(c.UserContext(), caller.Subject, req.Number, req.HolderName, req.Type)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(card)
}

// RemoveMyCard handles DELETE /api/users/me/cards/:cardId.
func (h *UsersHandler) RemoveMyCard(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.users.RemoveMyCard(c.UserContext(), caller.Subject, c.Params("cardId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetMyCardStatus handles PATCH /api/users/me/cards/:cardId/status.
func (h *UsersHandler) SetMyCardStatus(c *fiber.Ctx) error {
	var req dto.ToggleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	if err := h.users.SetMyCardStatus(c.UserContext(), caller.Subject, c.Params("cardId"), req.Active); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
