package service

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/client"
	"github.com/farekit/transit-service/internal/config"
	"github.com/farekit/transit-service/internal/domain"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

type fakeDirectory struct {
	byEmail    map[string]*client.InternalUser
	verifyWith string

	createdRole string
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (*client.InternalUser, error) {
	return f.byEmail[email], nil
}

func (f *fakeDirectory) VerifyCredentials(_ context.Context, email, password string) (*client.InternalUser, error) {
	user := f.byEmail[email]
	if user == nil || password != f.verifyWith {
		return nil, nil
	}
	return user, nil
}

func (f *fakeDirectory) CreateUser(_ context.Context, name, email, _, role string) (*client.InternalUser, error) {
	f.createdRole = role
	user := &client.InternalUser{ID: "new-id", Name: name, Email: email, Role: role}
	if f.byEmail == nil {
		f.byEmail = map[string]*client.InternalUser{}
	}
	f.byEmail[email] = user
	return user, nil
}

func newTestCodec(t *testing.T) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(config.AuthConfig{
		SigningKey:            bytes.Repeat([]byte{'k'}, 32),
		Issuer:                "transit-platform",
		Audience:              "transit-clients",
		AccessTokenTTLMinutes: 15,
	})
	if err != nil {
		t.Fatal(err)
	}
	return codec
}

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	directory := &fakeDirectory{
		byEmail: map[string]*client.InternalUser{
			"ana@example.com": {ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "ROLE_ADMIN"},
		},
		verifyWith: "correct-pass",
	}
	codec := newTestCodec(t)
	svc := NewAuthService(directory, codec, zap.NewNop())

	result, err := svc.Login(context.Background(), "ana@example.com", "correct-pass")
	if err != nil {
		t.Fatal(err)
	}
	if result.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", result.TokenType)
	}
	if result.User.Role != "ADMIN" {
		t.Errorf("profile role = %q, want ADMIN", result.User.Role)
	}

	claims, err := codec.Parse(result.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "u1" {
		t.Errorf("token subject = %q, want u1", claims.Subject)
	}
	if claims.NormalizedRole() != domain.RoleAdmin {
		t.Errorf("token role = %q, want ROLE_ADMIN", claims.NormalizedRole())
	}
}

func TestLoginFailureIsUniform(t *testing.T) {
	directory := &fakeDirectory{
		byEmail: map[string]*client.InternalUser{
			"ana@example.com": {ID: "u1", Email: "ana@example.com", Role: "ROLE_USER"},
		},
		verifyWith: "correct-pass",
	}
	svc := NewAuthService(directory, newTestCodec(t), zap.NewNop())

	_, wrongPassword := svc.Login(context.Background(), "ana@example.com", "bad-pass")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "bad-pass")

	for name, err := range map[string]error{"wrong password": wrongPassword, "unknown email": unknownEmail} {
		if !apperrors.IsCode(err, "INVALID_CREDENTIALS") {
			t.Errorf("%s: got %v, want INVALID_CREDENTIALS", name, err)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Error("failure messages differ; credentials probing becomes possible")
	}
}

func TestSignupForcesUserRoleForNonAdmins(t *testing.T) {
	directory := &fakeDirectory{}
	svc := NewAuthService(directory, newTestCodec(t), zap.NewNop())

	result, err := svc.Signup(context.Background(), auth.Identity{}, "Ana", "ana@example.com", "password1", "ADMIN")
	if err != nil {
		t.Fatal(err)
	}
	if directory.createdRole != string(domain.RoleUser) {
		t.Errorf("created role = %q, want ROLE_USER", directory.createdRole)
	}
	if result.User.Role != "USER" {
		t.Errorf("profile role = %q, want USER", result.User.Role)
	}
}

func TestSignupHonorsRoleFromAdminCaller(t *testing.T) {
	directory := &fakeDirectory{}
	svc := NewAuthService(directory, newTestCodec(t), zap.NewNop())

	adminCaller := auth.Identity{Subject: "root", Role: domain.RoleAdmin}
	_, err := svc.Signup(context.Background(), adminCaller, "Ana", "ana@example.com", "password1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if directory.createdRole != string(domain.RoleAdmin) {
		t.Errorf("created role = %q, want ROLE_ADMIN", directory.createdRole)
	}
}

func TestSignupRejectsExistingEmail(t *testing.T) {
	directory := &fakeDirectory{
		byEmail: map[string]*client.InternalUser{
			"ana@example.com": {ID: "u1", Email: "ana@example.com", Role: "ROLE_USER"},
		},
	}
	svc := NewAuthService(directory, newTestCodec(t), zap.NewNop())

	_, err := svc.Signup(context.Background(), auth.Identity{}, "Ana", "ana@example.com", "password1", "")
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("got %v, want CONFLICT", err)
	}
}
