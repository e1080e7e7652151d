package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/client"
	"github.com/farekit/transit-service/internal/domain"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

// UserDirectory is the auth service's view of the user service, reached over
// the internal channel.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*client.InternalUser, error)
	VerifyCredentials(ctx context.Context, email, password string) (*client.InternalUser, error)
	CreateUser(ctx context.Context, name, email, password, role string) (*client.InternalUser, error)
}

// AuthService coordinates signup and login flows. It holds no storage of its
// own: principals live behind the user service.
type AuthService struct {
	users  UserDirectory
	codec  *auth.Codec
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users UserDirectory, codec *auth.Codec, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, logger: logger}
}

// Profile is the minimal principal projection returned next to a token.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResult bundles an issued token with the authenticated profile.
type AuthResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	User      Profile
}

// Login verifies credentials through the user service and issues a token.
// A missing principal and a wrong password produce the same error: the
// response never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	principal, err := s.users.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if principal == nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	return s.issueFor(principal)
}

// Signup registers a principal and logs it in. The requested role is honored
// only when the caller already holds admin authority; everyone else gets
// ROLE_USER no matter what they asked for.
func (s *AuthService) Signup(ctx context.Context, caller auth.Identity, name, email, password, requestedRole string) (*AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	}

	role := domain.RoleUser
	if requestedRole != "" && caller.Role.IsAdmin() {
		role = domain.NormalizeRole(requestedRole)
	}

	// Raw password crosses only the internal channel; the user service hashes
	// it next to the store.
	created, err := s.users.CreateUser(ctx, name, email, password, string(role))
	if err != nil {
		if apperrors.IsCode(err, "CONFLICT") {
			return nil, err
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("principal registered", zap.String("user_id", created.ID))
	return s.issueFor(created)
}

func (s *AuthService) issueFor(principal *client.InternalUser) (*AuthResult, error) {
	role := domain.NormalizeRole(principal.Role)
	token, expiresAt, err := s.codec.Issue(principal.ID, string(role))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	name := principal.Name
	if name == "" {
		name = principal.Email
	}
	return &AuthResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User: Profile{
			ID:    principal.ID,
			Name:  name,
			Email: principal.Email,
			Role:  role.Label(),
		},
	}, nil
}
