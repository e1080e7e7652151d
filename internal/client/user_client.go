package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/farekit/transit-service/pkg/util"
)

// InternalUser is the principal projection exchanged over the internal
// channel. The password hash never leaves this channel.
type InternalUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Role         string `json:"role"`
}

// UserClient calls the user service's internal endpoints.
type UserClient struct {
	internalClient
}

// NewUserClient builds a client for the given user service base URL.
func NewUserClient(baseURL, secret string) *UserClient {
	return &UserClient{internalClient: newInternalClient(baseURL, secret)}
}

// FindByEmail resolves a principal. A missing principal is (nil, nil), not an
// error; callers decide what absence means.
func (c *UserClient) FindByEmail(ctx context.Context, email string) (*InternalUser, error) {
	path := "/api/internal/users/by-email?email=" + url.QueryEscape(email)
	var user InternalUser
	status, err := c.doJSON(ctx, http.MethodGet, path, "", nil, &user)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &user, nil
	case http.StatusNotFound:
		return nil, nil
	case http.StatusForbidden:
		return nil, fmt.Errorf("internal channel rejected: secret mismatch")
	default:
		return nil, fmt.Errorf("user service returned status %d", status)
	}
}

// VerifyCredentials delegates the password check to the user service, which
// holds the stored hash. Unknown email and wrong password both come back as
// (nil, nil): the caller must not be able to tell them apart.
func (c *UserClient) VerifyCredentials(ctx context.Context, email, password string) (*InternalUser, error) {
	body := map[string]string{"email": email, "password": password}
	var user InternalUser
	status, err := c.doJSON(ctx, http.MethodPost, "/api/internal/users/verify", "", body, &user)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &user, nil
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, nil
	case http.StatusForbidden:
		return nil, fmt.Errorf("internal channel rejected: secret mismatch")
	default:
		return nil, fmt.Errorf("user service returned status %d", status)
	}
}

// CreateUser registers a principal. The password travels raw over the
// internal channel and is hashed next to the store, inside the user service.
func (c *UserClient) CreateUser(ctx context.Context, name, email, password, role string) (*InternalUser, error) {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	}
	var user InternalUser
	status, err := c.doJSON(ctx, http.MethodPost, "/api/internal/users/create", "", body, &user)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
		return &user, nil
	case http.StatusConflict:
		return nil, apperrors.NewConflict("email already registered", nil)
	case http.StatusForbidden:
		return nil, fmt.Errorf("internal channel rejected: secret mismatch")
	default:
		return nil, fmt.Errorf("user service returned status %d", status)
	}
}
