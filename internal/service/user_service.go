package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/client"
	"github.com/farekit/transit-service/internal/domain"
	"github.com/farekit/transit-service/internal/events"
	"github.com/farekit/transit-service/internal/repository"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// CardChannel is the user service's view of the card service, reached over
// the internal channel with the acting subject attached.
type CardChannel interface {
	ListUserCards(ctx context.Context, userID string) ([]client.CardSummary, error)
	CreateCard(ctx context.Context, userID, number, holderName, cardType string) (*client.CardSummary, error)
	RemoveCard(ctx context.Context, userID, cardID string) error
	SetCardStatus(ctx context.Context, userID, cardID string, active bool) error
}

// UserService owns principal records: profile CRUD, the internal directory
// endpoints, and the composite card operations.
type UserService struct {
	users      repository.UserRepository
	cards      CardChannel
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, cards CardChannel, dispatcher events.Dispatcher, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		cards:      cards,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// List returns all principals.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Get returns a principal by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// Create registers a principal on the admin channel. A non-admin caller
// requesting any role is rejected outright, never silently downgraded.
func (s *UserService) Create(ctx context.Context, caller auth.Identity, name, email, password, requestedRole string) (*domain.User, error) {
	if requestedRole != "" && !caller.Role.IsAdmin() {
		return nil, apperrors.NewAccessDenied("role may only be set by an admin")
	}

	role := domain.RoleUser
	if requestedRole != "" {
		role = domain.NormalizeRole(requestedRole)
	}
	return s.createPrincipal(ctx, caller, name, email, password, role)
}

// Update renames a principal; allowed for the owner or an admin.
func (s *UserService) Update(ctx context.Context, caller auth.Identity, id, name string) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAct(user.ID) {
		return nil, apperrors.NewAccessDenied("not allowed to modify this user")
	}

	user.Name = name
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a principal. The route is admin-guarded.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, subjectID, currentPassword, newPassword string) error {
	user, err := s.Get(ctx, subjectID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// InternalFindByEmail resolves a principal for the internal channel, hash
// included.
func (s *UserService) InternalFindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// InternalCreate registers a principal on behalf of the auth service. The
// password arrives raw and is hashed here, next to the store; the role was
// already policed by the caller and is only canonicalized.
func (s *UserService) InternalCreate(ctx context.Context, actor auth.Identity, name, email, rawPassword, role string) (*domain.User, error) {
	return s.createPrincipal(ctx, actor, name, email, rawPassword, domain.NormalizeRole(role))
}

// InternalVerify is the credential check behind login. Unknown email and
// wrong password collapse into the same uniform failure.
func (s *UserService) InternalVerify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return user, nil
}

func (s *UserService) createPrincipal(ctx context.Context, actor auth.Identity, name, email, rawPassword string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(rawPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserCreated,
		OwnerID:   user.ID,
		Actor:     events.Actor{Subject: actor.Subject, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   events.UserCreatedPayload{UserID: user.ID, Email: user.Email, Role: user.Role},
	})
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// ListMyCards returns the caller's cards via the card service.
func (s *UserService) ListMyCards(ctx context.Context, subjectID string) ([]client.CardSummary, error) {
	return s.cards.ListUserCards(ctx, subjectID)
}

// AddMyCard registers a card for the caller via the card service.
func (s *UserService) AddMyCard(ctx context.Context, subjectID, number, holderName, cardType string) (*client.CardSummary, error) {
	return s.cards.CreateCard(ctx, subjectID, number, holderName, cardType)
}

// RemoveMyCard deletes one of the caller's cards via the card service.
func (s *UserService) RemoveMyCard(ctx context.Context, subjectID, cardID string) error {
	return s.cards.RemoveCard(ctx, subjectID, cardID)
}

// SetMyCardStatus toggles one of the caller's cards via the card service.
func (s *UserService) SetMyCardStatus(ctx context.Context, subjectID, cardID string, active bool) error {
	return s.cards.SetCardStatus(ctx, subjectID, cardID, active)
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
