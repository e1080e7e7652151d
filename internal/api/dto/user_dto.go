package dto

import "github.com/farekit/transit-service/internal/domain"

// CreateUserRequest payload for the admin create endpoint.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=160"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,max=30"`
}

// UpdateUserRequest payload for renaming a profile.
type UpdateUserRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// ChangePasswordRequest payload for the password change endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UserResponse is the public profile projection. The role is the simplified
// label, never the prefixed claim.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewUserResponse projects a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.Label(),
	}
}

// InternalUserResponse is the principal projection for the internal channel.
// It carries the password hash; it must never be served on a public route.
type InternalUserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}

// NewInternalUserResponse projects a domain user for the internal channel.
func NewInternalUserResponse(u *domain.User) InternalUserResponse {
	return InternalUserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
}

// InternalCreateUserRequest payload for internal principal creation. The
// password is raw; the user service hashes it.
type InternalCreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=160"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,max=30"`
}

// InternalVerifyRequest payload for internal credential verification.
type InternalVerifyRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
