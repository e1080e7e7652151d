package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/farekit/transit-service/internal/api/http"
	"github.com/farekit/transit-service/internal/api/http/handlers"
	"github.com/farekit/transit-service/internal/auth"
	"github.com/farekit/transit-service/internal/client"
	"github.com/farekit/transit-service/internal/config"
	"github.com/farekit/transit-service/internal/domain"
	"github.com/farekit/transit-service/internal/observability"
	"github.com/farekit/transit-service/internal/service"
)

const internalSecret = "test-internal-secret"

type memoryUserRepo struct {
	users map[string]*domain.User
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

type noopCardChannel struct{}

func (noopCardChannel) ListUserCards(context.Context, string) ([]client.CardSummary, error) {
	return nil, nil
}

func (noopCardChannel) CreateCard(context.Context, string, string, string, string) (*client.CardSummary, error) {
	return &client.CardSummary{}, nil
}

func (noopCardChannel) RemoveCard(context.Context, string, string) error { return nil }

func (noopCardChannel) SetCardStatus(context.Context, string, string, bool) error { return nil }

type userServiceApp struct {
	app   *fiber.App
	codec *auth.Codec
	repo  *memoryUserRepo
}

func newUserServiceApp(t *testing.T) *userServiceApp {
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

	repo := &memoryUserRepo{users: map[string]*domain.User{}}
	userService := service.NewUserService(repo, noopCardChannel{}, nil, bcrypt.MinCost, zap.NewNop())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterUserRoutes(app, codec, internalSecret,
		handlers.NewUsersHandler(userService),
		handlers.NewInternalUsersHandler(userService),
		handlers.NewHealthHandler("user-service", "test", nil),
	)

	return &userServiceApp{app: app, codec: codec, repo: repo}
}

func (ua *userServiceApp) seed(t *testing.T, id, email, password string, role domain.Role) {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	ua.repo.users[id] = &domain.User{ID: id, Name: "Seed", Email: email, PasswordHash: hash, Role: role}
}

func (ua *userServiceApp) token(t *testing.T, subject string, role domain.Role) string {
	t.Helper()
	token, _, err := ua.codec.Issue(subject, string(role))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func (ua *userServiceApp) do(t *testing.T, method, path, token, body string, internal bool) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if internal {
		req.Header.Set(auth.HeaderInternalSecret, internalSecret)
		req.Header.Set(auth.HeaderUserID, "sibling-service")
	}
	resp, err := ua.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestListUsersRequiresAuthentication(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)

	if resp := ua.do(t, http.MethodGet, "/api/users/", "", "", false); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", resp.StatusCode)
	}

	userToken := ua.token(t, "u1", domain.RoleUser)
	if resp := ua.do(t, http.MethodGet, "/api/users/", userToken, "", false); resp.StatusCode != http.StatusOK {
		t.Fatalf("user: status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)

	body := `{"name":"Bob","email":"bob@example.com","password":"password1"}`

	userToken := ua.token(t, "u1", domain.RoleUser)
	if resp := ua.do(t, http.MethodPost, "/api/users/", userToken, body, false); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user: status = %d, want 403", resp.StatusCode)
	}

	adminToken := ua.token(t, "root", domain.RoleAdmin)
	if resp := ua.do(t, http.MethodPost, "/api/users/", adminToken, body, false); resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin: status = %d, want 201", resp.StatusCode)
	}
}

func TestMeReturnsOwnProfileWithoutHash(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)

	token := ua.token(t, "u1", domain.RoleUser)
	resp := ua.do(t, http.MethodGet, "/api/users/me", token, "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var profile map[string]any
	if err := json.Unmarshal(payload, &profile); err != nil {
		t.Fatal(err)
	}
	if profile["id"] != "u1" {
		t.Errorf("id = %v, want u1", profile["id"])
	}
	if profile["role"] != "USER" {
		t.Errorf("role = %v, want USER", profile["role"])
	}
	if _, leaked := profile["passwordHash"]; leaked {
		t.Error("public profile leaked the password hash")
	}
	if strings.Contains(string(payload), "$2a$") {
		t.Error("bcrypt hash appears in the public response body")
	}
}

func TestUpdateOtherUserIsDenied(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)
	ua.seed(t, "u2", "bob@example.com", "password1", domain.RoleUser)

	token := ua.token(t, "u2", domain.RoleUser)
	resp := ua.do(t, http.MethodPut, "/api/users/u1", token, `{"name":"Hacked"}`, false)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestInternalRoutesRequireSecret(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)

	resp := ua.do(t, http.MethodPost, "/api/internal/users/verify", "", `{"email":"ana@example.com","password":"password1"}`, false)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("no secret: status = %d, want 403", resp.StatusCode)
	}

	// A bearer token is no substitute for the shared secret, admin or not.
	adminToken := ua.token(t, "root", domain.RoleAdmin)
	resp = ua.do(t, http.MethodPost, "/api/internal/users/verify", adminToken, `{"email":"ana@example.com","password":"password1"}`, false)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("token only: status = %d, want 403", resp.StatusCode)
	}
}

func TestInternalVerifyReturnsHashBearingProjection(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)

	resp := ua.do(t, http.MethodPost, "/api/internal/users/verify", "", `{"email":"ana@example.com","password":"password1"}`, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var user client.InternalUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatal(err)
	}
	if user.ID != "u1" || user.PasswordHash == "" {
		t.Errorf("projection = %+v, want id u1 with a password hash", user)
	}

	resp = ua.do(t, http.MethodPost, "/api/internal/users/verify", "", `{"email":"ana@example.com","password":"wrong"}`, true)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d, want 401", resp.StatusCode)
	}

	resp = ua.do(t, http.MethodPost, "/api/internal/users/verify", "", `{"email":"ghost@example.com","password":"wrong"}`, true)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown email: status = %d, want 401", resp.StatusCode)
	}
}

func TestInternalByEmail(t *testing.T) {
	ua := newUserServiceApp(t)
	ua.seed(t, "u1", "ana@example.com", "password1", domain.RoleUser)

	resp := ua.do(t, http.MethodGet, "/api/internal/users/by-email?email=ana%40example.com", "", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp = ua.do(t, http.MethodGet, "/api/internal/users/by-email?email=ghost%40example.com", "", "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing user: status = %d, want 404", resp.StatusCode)
	}
}

func TestSignupValidationSurface(t *testing.T) {
	ua := newUserServiceApp(t)

	// Short password fails DTO validation before any service call.
	adminToken := ua.token(t, "root", domain.RoleAdmin)
	resp := ua.do(t, http.MethodPost, "/api/users/", adminToken, `{"name":"Ana","email":"ana@example.com","password":"short"}`, false)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password: status = %d, want 400", resp.StatusCode)
	}
}
