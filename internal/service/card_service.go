package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/domain"
	"github.com/farekit/transit-service/internal/events"
	"github.com/farekit/transit-service/internal/repository"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// CardService owns transit cards. Every operation takes the caller's identity
// and applies the self-or-admin check against the card owner; calls arriving
// over the internal channel carry an admin-equivalent identity and therefore
// pass it implicitly.
type CardService struct {
	cards      repository.CardRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewCardService builds the service.
func NewCardService(cards repository.CardRepository, dispatcher events.Dispatcher, logger *zap.Logger) *CardService {
	return &CardService{cards: cards, dispatcher: dispatcher, logger: logger}
}

// ListUserCards returns the cards owned by userID.
func (s *CardService) ListUserCards(ctx context.Context, caller auth.Identity, userID string) ([]*domain.Card, error) {
	if !caller.CanAct(userID) {
		return nil, apperrors.NewAccessDenied("not allowed to view this user's cards")
	}
	return s.cards.ListByUser(ctx, userID)
}

// AddCard registers a card for userID. The number is generated when omitted;
// a duplicate number for the same owner is a conflict.
func (s *CardService) AddCard(ctx context.Context, caller auth.Identity, userID, number, holderName string, cardType domain.CardType) (*domain.Card, error) {
	if !caller.CanAct(userID) {
		return nil, apperrors.NewAccessDenied("not allowed to add a card for this user")
	}
	if !domain.ValidCardType(cardType) {
		return nil, apperrors.NewValidationError("unknown card type", map[string]any{"type": cardType})
	}

	if number == "" {
		number = GenerateCardNumber()
	}

	if _, err := s.cards.GetByUserAndNumber(ctx, userID, number); err == nil {
		return nil, apperrors.NewConflict("user already holds a card with this number", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	card := &domain.Card{
		ID:         uuid.NewString(),
		Number:     number,
		HolderName: holderName,
		Active:     true,
		Type:       cardType,
		UserID:     userID,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	s.publish(ctx, caller, events.EventCardCreated, card.UserID,
		events.CardCreatedPayload{CardID: card.ID, Number: card.Number, Type: card.Type})
	s.logger.Info("card created", zap.String("card_id", card.ID), zap.String("user_id", card.UserID))
	return card, nil
}

// RemoveCard deletes a card after checking it belongs to userID.
func (s *CardService) RemoveCard(ctx context.Context, caller auth.Identity, userID, cardID string) error {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return err
	}
	if !caller.CanAct(card.UserID) {
		return apperrors.NewAccessDenied("not allowed to remove this card")
	}
	if card.UserID != userID {
		return apperrors.NewValidationError("card does not belong to the specified user", nil)
	}

	if err := s.cards.Delete(ctx, card.ID); err != nil {
		return err
	}
	s.publish(ctx, caller, events.EventCardRemoved, card.UserID,
		events.CardRemovedPayload{CardID: card.ID})
	s.logger.Info("card removed", zap.String("card_id", card.ID), zap.String("user_id", card.UserID))
	return nil
}

// SetStatus activates or deactivates a card.
func (s *CardService) SetStatus(ctx context.Context, caller auth.Identity, cardID string, active bool) (*domain.Card, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAct(card.UserID) {
		return nil, apperrors.NewAccessDenied("not allowed to change this card's status")
	}

	card.Active = active
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}
	s.publish(ctx, caller, events.EventCardStatusChanged, card.UserID,
		events.CardStatusChangedPayload{CardID: card.ID, Active: card.Active})
	return card, nil
}

// UpdateCard renames a card and optionally toggles its status.
func (s *CardService) UpdateCard(ctx context.Context, caller auth.Identity, cardID, holderName string, active *bool) (*domain.Card, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAct(card.UserID) {
		return nil, apperrors.NewAccessDenied("not allowed to modify this card")
	}

	card.HolderName = holderName
	statusChanged := false
	if active != nil && card.Active != *active {
		card.Active = *active
		statusChanged = true
	}
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}
	if statusChanged {
		s.publish(ctx, caller, events.EventCardStatusChanged, card.UserID,
			events.CardStatusChangedPayload{CardID: card.ID, Active: card.Active})
	}
	return card, nil
}

// ListActiveByType returns active cards of the given fare category.
func (s *CardService) ListActiveByType(ctx context.Context, cardType domain.CardType) ([]*domain.Card, error) {
	if !domain.ValidCardType(cardType) {
		return nil, apperrors.NewValidationError("unknown card type", map[string]any{"type": cardType})
	}
	return s.cards.ListActiveByType(ctx, cardType)
}

func (s *CardService) getCard(ctx context.Context, cardID string) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("card", nil)
		}
		return nil, err
	}
	return card, nil
}

func (s *CardService) publish(ctx context.Context, actor auth.Identity, eventType events.EventType, ownerID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		OwnerID:   ownerID,
		Actor:     events.Actor{Subject: actor.Subject, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
