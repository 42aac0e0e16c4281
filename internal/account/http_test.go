package account

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/DriveEzzy/DriveEzzy/internal/common/config"
)

func newTestRouter() http.Handler {
	h := NewHandler(NewService(NewMemStore()), config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "driveezzy",
		Audience:  "driveezzy",
	}, nil)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignupStatusMapping(t *testing.T) {
	router := newTestRouter()

	if rec := postJSON(t, router, "/signup", `{"username":"alice","password":"secret"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := postJSON(t, router, "/signup", `{"username":"alice","password":"other"}`); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate, got %d", rec.Code)
	}
	// 缺用户名/密码是 400 校验错误，而不是 401
	if rec := postJSON(t, router, "/signup", `{"username":"","password":"x"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty username, got %d", rec.Code)
	}
	if rec := postJSON(t, router, "/signup", `{"username":"bob","password":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty password, got %d", rec.Code)
	}
}

func TestLoginStatusMapping(t *testing.T) {
	router := newTestRouter()

	if rec := postJSON(t, router, "/signup", `{"username":"alice","password":"secret"}`); rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d", rec.Code)
	}
	if rec := postJSON(t, router, "/login", `{"username":"alice","password":"secret"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := postJSON(t, router, "/login", `{"username":"alice","password":"wrong"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}
}
