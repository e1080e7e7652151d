package client

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/farekit/transit-service/pkg/util"
)

// CardSummary is the card projection exchanged over the internal channel.
type CardSummary struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	HolderName string `json:"holderName"`
	Active     bool   `json:"active"`
	Type       string `json:"type"`
}

// CardClient calls the card service's internal endpoints on behalf of a user.
type CardClient struct {
	internalClient
}

// NewCardClient builds a client for the given card service base URL.
func NewCardClient(baseURL, secret string) *CardClient {
	return &CardClient{internalClient: newInternalClient(baseURL, secret)}
}

// ListUserCards fetches all cards owned by the user.
func (c *CardClient) ListUserCards(ctx context.Context, userID string) ([]CardSummary, error) {
	var cards []CardSummary
	status, err := c.doJSON(ctx, http.MethodGet, "/internal/cards/user/"+userID, userID, nil, &cards)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("card service returned status %d", status)
	}
	return cards, nil
}

// CreateCard registers a card for the user.
func (c *CardClient) CreateCard(ctx context.Context, userID, number, holderName, cardType string) (*CardSummary, error) {
	body := map[string]string{
		"number":     number,
		"holderName": holderName,
		"type":       cardType,
		"userId":     userID,
	}
	var card CardSummary
	status, err := c.doJSON(ctx, http.MethodPost, "/internal/cards", userID, body, &card)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		return &card, nil
	case http.StatusConflict:
		return nil, apperrors.NewConflict("user already holds a card with this number", nil)
	case http.StatusBadRequest:
		return nil, apperrors.NewValidationError("card service rejected the payload", nil)
	default:
		return nil, fmt.Errorf("card service returned status %d", status)
	}
}

// RemoveCard deletes one of the user's cards.
func (c *CardClient) RemoveCard(ctx context.Context, userID, cardID string) error {
	status, err := c.doJSON(ctx, http.MethodDelete, "/internal/cards/"+cardID+"/user/"+userID, userID, nil, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return apperrors.NewNotFound("card", nil)
	default:
		return fmt.Errorf("card service returned status %d", status)
	}
}

// SetCardStatus activates or deactivates a card.
func (c *CardClient) SetCardStatus(ctx context.Context, userID, cardID string, active bool) error {
	path := "/internal/cards/" + cardID + "/deactivate"
	if active {
		path = "/internal/cards/" + cardID + "/activate"
	}
	status, err := c.doJSON(ctx, http.MethodPut, path, userID, nil, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return apperrors.NewNotFound("card", nil)
	default:
		return fmt.Errorf("card service returned status %d", status)
	}
}

// UpdateCard renames a card and optionally toggles its status.
func (c *CardClient) UpdateCard(ctx context.Context, userID, cardID, holderName string, active *bool) (*CardSummary, error) {
	body := map[string]any{"holderName": holderName}
	if active != nil {
		body["active"] = *active
	}
	var card CardSummary
	status, err := c.doJSON(ctx, http.MethodPut, "/internal/cards/"+cardID, userID, body, &card)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &card, nil
	case http.StatusNotFound:
		return nil, apperrors.NewNotFound("card", nil)
	default:
		return nil, fmt.Errorf("card service returned status %d", status)
	}
}
