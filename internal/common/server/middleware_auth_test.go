package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/common/config"
	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, cfg config.AuthConfig, subject, namespace string) string {
	t.Helper()
	now := time.Now()
	claims := struct {
		Namespace string `json:"ns"`
		jwt.RegisteredClaims
	}{
		Namespace: namespace,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTAuthAndRequireNamespace(t *testing.T) {
	authCfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "driveezzy",
		Audience:  "driveezzy",
	}

	handler := JWTAuth(authCfg, nil)(RequireNamespace("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ai, ok := AuthFromContext(r.Context())
		if !ok {
			t.Fatalf("missing auth info in ctx")
		}
		if ai.Subject != "root" {
			t.Fatalf("subject mismatch: %s", ai.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})))

	// admin token 放行
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, authCfg, "root", "admin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// user token 被命名空间校验拒绝
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/admin/vehicles", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, authCfg, "alice", "user"))
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec2.Code)
	}

	// 无 token
	req3 := httptest.NewRequest(http.MethodGet, "/api/v1/admin/vehicles", nil)
	rec3 := httptest.NewRecorder()
	handler.ServeHTTP(rec3, req3)
	if rec3.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec3.Code)
	}
}

func TestJWTAuthPublicPath(t *testing.T) {
	authCfg := config.AuthConfig{
		Enabled:     true,
		JWTSecret:   "test-secret",
		PublicPaths: []string{"/api/v1/login"},
	}

	called := false
	handler := JWTAuth(authCfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected public path to pass, got %d", rec.Code)
	}

	// 非 public path 无 token 被拒
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec2.Code)
	}
}
