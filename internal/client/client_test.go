package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farekit/transit-service/internal/auth"
	apperrors "github.com/farekit/transit-service/pkg/util"
)

const testSecret = "internal-secret"

type capturedRequest struct {
	method string
	path   string
	query  string
	secret string
	userID string
}

func captureServer(t *testing.T, status int, body any) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		captured.secret = r.Header.Get(auth.HeaderInternalSecret)
		captured.userID = r.Header.Get(auth.HeaderUserID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestUserClientSendsSecret(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK, InternalUser{ID: "u1", Email: "ana@example.com"})
	uc := NewUserClient(server.URL, testSecret)

	user, err := uc.VerifyCredentials(context.Background(), "ana@example.com", "password1")
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("user = %+v, want u1", user)
	}
	if captured.secret != testSecret {
		t.Errorf("secret header = %q, want the shared secret", captured.secret)
	}
	if captured.path != "/api/internal/users/verify" {
		t.Errorf("path = %q", captured.path)
	}
}

func TestUserClientVerifyUniformOnRejection(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound} {
		server, _ := captureServer(t, status, nil)
		uc := NewUserClient(server.URL, testSecret)

		user, err := uc.VerifyCredentials(context.Background(), "ana@example.com", "nope")
		if err != nil {
			t.Fatalf("status %d: unexpected error %v", status, err)
		}
		if user != nil {
			t.Errorf("status %d: user = %+v, want nil", status, user)
		}
	}
}

func TestUserClientFindByEmailMissingIsNil(t *testing.T) {
	server, captured := captureServer(t, http.StatusNotFound, nil)
	uc := NewUserClient(server.URL, testSecret)

	user, err := uc.FindByEmail(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if user != nil {
		t.Errorf("user = %+v, want nil for a missing principal", user)
	}
	if captured.query != "email=ghost%40example.com" {
		t.Errorf("query = %q", captured.query)
	}
}

func TestUserClientCreateConflict(t *testing.T) {
	server, _ := captureServer(t, http.StatusConflict, nil)
	uc := NewUserClient(server.URL, testSecret)

	_, err := uc.CreateUser(context.Background(), "Ana", "ana@example.com", "password1", "ROLE_USER")
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("got %v, want CONFLICT", err)
	}
}

func TestCardClientPropagatesActingSubject(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK, []CardSummary{})
	cc := NewCardClient(server.URL, testSecret)

	if _, err := cc.ListUserCards(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	if captured.userID != "u1" {
		t.Errorf("%s header = %q, want u1", auth.HeaderUserID, captured.userID)
	}
	if captured.secret != testSecret {
		t.Errorf("secret header = %q, want the shared secret", captured.secret)
	}
	if captured.path != "/internal/cards/user/u1" {
		t.Errorf("path = %q", captured.path)
	}
}

func TestCardClientStatusRoutes(t *testing.T) {
	server, captured := captureServer(t, http.StatusOK, nil)
	cc := NewCardClient(server.URL, testSecret)

	if err := cc.SetCardStatus(context.Background(), "u1", "c1", true); err != nil {
		t.Fatal(err)
	}
	if captured.method != http.MethodPut || captured.path != "/internal/cards/c1/activate" {
		t.Errorf("got %s %s, want PUT /internal/cards/c1/activate", captured.method, captured.path)
	}

	if err := cc.SetCardStatus(context.Background(), "u1", "c1", false); err != nil {
		t.Fatal(err)
	}
	if captured.path != "/internal/cards/c1/deactivate" {
		t.Errorf("path = %q, want /internal/cards/c1/deactivate", captured.path)
	}
}

func TestCardClientCreateConflict(t *testing.T) {
	server, _ := captureServer(t, http.StatusConflict, nil)
	cc := NewCardClient(server.URL, testSecret)

	_, err := cc.CreateCard(context.Background(), "u1", "90.12.34567890-1", "Holder", "COMMON")
	if !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("got %v, want CONFLICT", err)
	}
}
