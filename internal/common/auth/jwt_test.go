package auth

import (
	"testing"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/common/config"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "driveezzy",
		Audience:  "driveezzy",
	}

	token, exp, err := GenerateAccessToken(cfg, "alice", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expected exp in future")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || parsed == nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if claims.Namespace != "user" {
		t.Fatalf("namespace mismatch: %s", claims.Namespace)
	}
}

func TestGenerateAccessTokenRejectsEmptyNamespace(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "test-secret"}
	if _, _, err := GenerateAccessToken(cfg, "alice", "", time.Hour); err == nil {
		t.Fatalf("expected error for empty namespace")
	}
}
