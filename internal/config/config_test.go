package config

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{'k'}, 32))
	t.Setenv("JWT_SECRET_BASE64", key)
	t.Setenv("INTERNAL_API_SECRET", "shared-secret")
}

func TestLoadRequiresSigningKey(t *testing.T) {
	t.Setenv("JWT_SECRET_BASE64", "")
	t.Setenv("INTERNAL_API_SECRET", "shared-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET_BASE64 is missing")
	}
}

func TestLoadRejectsInvalidBase64(t *testing.T) {
	t.Setenv("JWT_SECRET_BASE64", "%%%not-base64%%%")
	t.Setenv("INTERNAL_API_SECRET", "shared-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for undecodable JWT_SECRET_BASE64")
	}
}

func TestLoadRejectsShortSigningKey(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("short-key"))
	t.Setenv("JWT_SECRET_BASE64", short)
	t.Setenv("INTERNAL_API_SECRET", "shared-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for a signing key under 32 bytes")
	}
}

func TestLoadRequiresInternalSecret(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{'k'}, 32))
	t.Setenv("JWT_SECRET_BASE64", key)
	t.Setenv("INTERNAL_API_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when INTERNAL_API_SECRET is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Auth.SigningKey) != 32 {
		t.Errorf("signing key length = %d, want 32", len(cfg.Auth.SigningKey))
	}
	if cfg.Auth.AccessTokenTTL() != 15*time.Minute {
		t.Errorf("token TTL = %v, want 15m", cfg.Auth.AccessTokenTTL())
	}
	if cfg.Internal.Secret != "shared-secret" {
		t.Errorf("internal secret = %q", cfg.Internal.Secret)
	}
	if cfg.App.Addr() == "" {
		t.Error("empty bind address")
	}
	if cfg.Postgres.MigrationsDir == "" {
		t.Error("empty migrations dir")
	}
}

func TestAccessTokenTTLOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_TTL_MINUTES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Auth.AccessTokenTTL() != 5*time.Minute {
		t.Errorf("token TTL = %v, want 5m", cfg.Auth.AccessTokenTTL())
	}
}
