package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/api/dto"
	"github.com/farekit/transit-service/internal/domain"
	"github.com/farekit/transit-service/internal/service"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// InternalCardsHandler serves card operations for sibling services. Routes
// sit behind auth.InternalOnly, which binds the acting subject from the
// X-User-Id header as an admin-equivalent identity.
type InternalCardsHandler struct {
	cards *service.CardService
}

// NewInternalCardsHandler constructs handler.
func NewInternalCardsHandler(cardService *service.CardService) *InternalCardsHandler {
	return &InternalCardsHandler{cards: cardService}
}

// ListUserCards handles GET /internal/cards/user/:userId.
func (h *InternalCardsHandler) ListUserCards(c *fiber.Ctx) error {
	actor, err := requireIdentity(c)
	if err != nil {
		return err
	}
	cards, err := h.cards.ListUserCards(c.UserContext(), actor, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardResponses(cards))
}

// Create handles POST /internal/cards.
func (h *InternalCardsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCardRequest
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

	card, err := h.cards.AddCard(c.UserContext(), actor, req.UserID, req.Number, req.HolderName, domain.CardType(req.Type))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCardResponse(card))
}

// Update handles PUT /internal/cards/:cardId.
func (h *InternalCardsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCardRequest
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

	card, err := h.cards.UpdateCard(c.UserContext(), actor, c.Params("cardId"), req.HolderName, req.Active)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardResponse(card))
}

// Activate handles PUT /internal/cards/:cardId/activate.
func (h *InternalCardsHandler) Activate(c *fiber.Ctx) error {
	return h.setStatus(c, true)
}

// Deactivate handles PUT /internal/cards/:cardId/deactivate.
func (h *InternalCardsHandler) Deactivate(c *fiber.Ctx) error {
	return h.setStatus(c, false)
}

// Remove handles DELETE /internal/cards/:cardId/user/:userId.
func (h *InternalCardsHandler) Remove(c *fiber.Ctx) error {
	actor, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.cards.RemoveCard(c.UserContext(), actor, c.Params("userId"), c.Params("cardId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *InternalCardsHandler) setStatus(c *fiber.Ctx, active bool) error {
	actor, err := requireIdentity(c)
	if err != nil {
		return err
	}
	card, err := h.cards.SetStatus(c.UserContext(), actor, c.Params("cardId"), active)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardResponse(card))
}
