package events

import (
	"time"

	"github.com/farekit/transit-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated       EventType = "user_created"
	EventCardCreated       EventType = "card_created"
	EventCardStatusChanged EventType = "card_status_changed"
	EventCardRemoved       EventType = "card_removed"
)

// Actor encapsulates who performed the action: the authenticated subject and
// whether the call arrived over the internal channel.
type Actor struct {
	Subject  string      `json:"subject"`
	Role     domain.Role `json:"role"`
	Internal bool        `json:"internal,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OwnerID   string      `json:"owner_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// CardCreatedPayload payload.
type CardCreatedPayload struct {
	CardID string          `json:"card_id"`
	Number string          `json:"number"`
	Type   domain.CardType `json:"type"`
}

// CardStatusChangedPayload payload.
type CardStatusChangedPayload struct {
	CardID string `json:"card_id"`
	Active bool   `json:"active"`
}

// CardRemovedPayload payload.
type CardRemovedPayload struct {
	CardID string `json:"card_id"`
}
