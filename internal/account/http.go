package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/common/auth"
	"github.com/DriveEzzy/DriveEzzy/internal/common/config"
	"github.com/DriveEzzy/DriveEzzy/internal/common/server"
	"github.com/DriveEzzy/DriveEzzy/internal/notify"
	"github.com/go-chi/chi/v5"
)

// Handler 账号 HTTP 传输层：注册 / 登录，登录成功签发 access token。
type Handler struct {
	svc     *Service
	authCfg config.AuthConfig
	events  *notify.Dispatcher
}

func NewHandler(svc *Service, authCfg config.AuthConfig, events *notify.Dispatcher) *Handler {
	return &Handler{svc: svc, authCfg: authCfg, events: events}
}

// Register 注册公开路由（配置须把这几个路径列入 auth.public_paths）。
func (h *Handler) Register(r chi.Router) {
	r.Post("/signup", h.signup(NamespaceUser))
	r.Post("/login", h.login(NamespaceUser))
	r.Post("/admin/signup", h.signup(NamespaceAdmin))
	r.Post("/admin/login", h.login(NamespaceAdmin))
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) signup(namespace string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			server.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		a, err := h.svc.Register(r.Context(), namespace, req.Username, req.Password)
		if err != nil {
			writeAccountError(w, err)
			return
		}

		// 注册事件只对普通用户发（与旧系统行为一致）
		if namespace == NamespaceUser && h.events != nil {
			h.events.Publish(notify.Event{
				Kind:    notify.KindUserSignup,
				Subject: a.Username,
				Message: "user signed up",
			})
		}

		server.WriteJSON(w, http.StatusCreated, map[string]string{"username": a.Username})
	}
}

func (h *Handler) login(namespace string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			server.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		a, err := h.svc.Authenticate(r.Context(), namespace, req.Username, req.Password)
		if err != nil {
			writeAccountError(w, err)
			return
		}

		ttl := time.Duration(h.authCfg.TokenTTLMin) * time.Minute
		token, exp, err := auth.GenerateAccessToken(h.authCfg, a.Username, a.Namespace, ttl)
		if err != nil {
			server.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}

		server.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": token,
			"expires_at":   exp.Unix(),
			"username":     a.Username,
		})
	}
}

func writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		server.WriteError(w, http.StatusConflict, "username already exists")
	case errors.Is(err, ErrInvalidCredentials):
		server.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrInvalidNamespace), errors.Is(err, ErrInvalidInput):
		server.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		server.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
