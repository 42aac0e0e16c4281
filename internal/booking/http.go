package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DriveEzzy/DriveEzzy/internal/common/server"
	"github.com/go-chi/chi/v5"
)

// Handler 预订 HTTP 传输层。
// owner 一律取自请求身份（token subject），绝不信任请求体里的用户名。
type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// Register 注册用户侧路由（调用方需挂载 user 命名空间校验）。
func (h *Handler) Register(r chi.Router) {
	r.Post("/bookings", h.createBooking)
	r.Get("/bookings", h.listBookings)
	r.Post("/bookings/{id}/extend", h.extendBooking)
	r.Delete("/bookings/{id}", h.cancelBooking)
}

// RegisterAdmin 注册管理端路由（调用方需挂载 admin 命名空间校验）。
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/bookings", h.listAllBookings)
}

type createBookingRequest struct {
	VehicleID string `json:"vehicle_id"`
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	ai, ok := server.AuthFromContext(r.Context())
	if !ok {
		server.WriteError(w, http.StatusUnauthorized, "missing auth")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.ledger.Create(r.Context(), ai.Subject, req.VehicleID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	ai, ok := server.AuthFromContext(r.Context())
	if !ok {
		server.WriteError(w, http.StatusUnauthorized, "missing auth")
		return
	}

	bookings, err := h.ledger.ListForOwner(r.Context(), ai.Subject)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *Handler) extendBooking(w http.ResponseWriter, r *http.Request) {
	ai, ok := server.AuthFromContext(r.Context())
	if !ok {
		server.WriteError(w, http.StatusUnauthorized, "missing auth")
		return
	}

	b, err := h.ledger.Extend(r.Context(), ai.Subject, chi.URLParam(r, "id"))
	if err != nil {
		writeBookingError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	ai, ok := server.AuthFromContext(r.Context())
	if !ok {
		server.WriteError(w, http.StatusUnauthorized, "missing auth")
		return
	}

	// 幂等：不存在的 id 同样返回 204
	if err := h.ledger.Cancel(r.Context(), ai.Subject, chi.URLParam(r, "id")); err != nil {
		writeBookingError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listAllBookings(w http.ResponseWriter, r *http.Request) {
	all, err := h.ledger.ListAll(r.Context())
	if err != nil {
		writeBookingError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"bookings": all})
}

func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		server.WriteError(w, http.StatusNotFound, "booking not found")
	case errors.Is(err, ErrVehicleNotFound):
		server.WriteError(w, http.StatusNotFound, "vehicle not found")
	default:
		server.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
