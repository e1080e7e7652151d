package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/api/dto"
	"github.com/farekit/transit-service/internal/domain"
	"github.com/farekit/transit-service/internal/service"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// CardsHandler exposes the public card routes. Ownership checks live in the
// service; handlers only shuttle the caller's identity through.
type CardsHandler struct {
	cards *service.CardService
}

// NewCardsHandler constructs handler.
func NewCardsHandler(cardService *service.CardService) *CardsHandler {
	return &CardsHandler{cards: cardService}
}

// ListUserCards handles GET /api/cards/users/:userId.
func (h *CardsHandler) ListUserCards(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	cards, err := h.cards.ListUserCards(c.UserContext(), caller, c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardResponses(cards))
}

// Add handles POST /api/cards/users/:userId.
func (h *CardsHandler) Add(c *fiber.Ctx) error {
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

	card, err := h.cards.AddCard(c.UserContext(), caller, c.Params("userId"), req.Number, req.HolderName, domain.CardType(req.Type))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCardResponse(card))
}

// Remove handles DELETE /api/cards/users/:userId/:cardId.
func (h *CardsHandler) Remove(c *fiber.Ctx) error {
	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.cards.RemoveCard(c.UserContext(), caller, c.Params("userId"), c.Params("cardId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ToggleStatus handles PATCH /api/cards/users/:userId/:cardId/status.
func (h *CardsHandler) ToggleStatus(c *fiber.Ctx) error {
	var req dto.ToggleStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	caller, err := requireIdentity(c)
	if err != nil {
		return err
	}

	card, err := h.cards.SetStatus(c.UserContext(), caller, c.Params("cardId"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardResponse(card))
}

// ActiveByType handles GET /api/cards/active/by-type/:type.
func (h *CardsHandler) ActiveByType(c *fiber.Ctx) error {
	cards, err := h.cards.ListActiveByType(c.UserContext(), domain.CardType(c.Params("type")))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardResponses(cards))
}
