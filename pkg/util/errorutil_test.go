package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorMapsNoRows(t *testing.T) {
	de := ToDomainError(fmt.Errorf("load user: %w", pgx.ErrNoRows))
	if de.Code != "NOT_FOUND" || de.HTTPStatus != http.StatusNotFound {
		t.Errorf("got %s/%d, want NOT_FOUND/404", de.Code, de.HTTPStatus)
	}
}

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewAccessDenied("nope")
	de := ToDomainError(fmt.Errorf("wrapped: %w", original))
	if de.Code != "ACCESS_DENIED" || de.HTTPStatus != http.StatusForbidden {
		t.Errorf("got %s/%d, want ACCESS_DENIED/403", de.Code, de.HTTPStatus)
	}
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	if de.Code != "INTERNAL_ERROR" || de.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("got %s/%d, want INTERNAL_ERROR/500", de.Code, de.HTTPStatus)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewConflict("dup", nil))
	if !IsCode(err, "CONFLICT") {
		t.Error("IsCode missed a wrapped CONFLICT")
	}
	if IsCode(err, "NOT_FOUND") {
		t.Error("IsCode matched the wrong code")
	}
	if IsCode(errors.New("plain"), "CONFLICT") {
		t.Error("IsCode matched a non-domain error")
	}
}

func TestInvalidCredentialsIsUniform(t *testing.T) {
	a := NewInvalidCredentials()
	b := NewInvalidCredentials()
	if a.Error() != b.Error() {
		t.Error("invalid credentials messages differ between calls")
	}
	var de *DomainError
	if !errors.As(a, &de) || de.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("got %+v, want a 401 DomainError", a)
	}
}
