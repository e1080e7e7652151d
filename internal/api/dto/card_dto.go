package dto

import "github.com/farekit/transit-service/internal/domain"

// AddCardRequest payload for attaching a card to a user. Number is optional;
// the card service generates one when omitted.
type AddCardRequest struct {
	Number     string `json:"number" validate:"omitempty,min=13,max=19"`
	HolderName string `json:"holderName" validate:"required,max=120"`
	Type       string `json:"type" validate:"required"`
}

// CreateCardRequest payload for internal card creation.
type CreateCardRequest struct {
	Number     string `json:"number" validate:"omitempty,min=13,max=19"`
	HolderName string `json:"holderName" validate:"required,max=120"`
	Type       string `json:"type" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
}

// UpdateCardRequest payload for renaming a card; status toggle optional.
type UpdateCardRequest struct {
	HolderName string `json:"holderName" validate:"required,max=120"`
	Active     *bool  `json:"active"`
}

// ToggleStatusRequest payload for the status endpoint.
type ToggleStatusRequest struct {
	Active bool `json:"active"`
}

// CardResponse is the card projection returned by card endpoints.
type CardResponse struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	HolderName string `json:"holderName"`
	Active     bool   `json:"active"`
	Type       string `json:"type"`
	UserID     string `json:"userId"`
}

// NewCardResponse projects a domain card.
func NewCardResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:         c.ID,
		Number:     c.Number,
		HolderName: c.HolderName,
		Active:     c.Active,
		Type:       string(c.Type),
		UserID:     c.UserID,
	}
}

// NewCardResponses projects a slice of domain cards.
func NewCardResponses(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, NewCardResponse(c))
	}
	return out
}
