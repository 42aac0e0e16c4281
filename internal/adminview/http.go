// Package adminview 管理端总览接口：聚合车辆、用户与租约数据。
package adminview

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DriveEzzy/DriveEzzy/internal/account"
	"github.com/DriveEzzy/DriveEzzy/internal/booking"
	"github.com/DriveEzzy/DriveEzzy/internal/catalog"
	"github.com/DriveEzzy/DriveEzzy/internal/common/server"
)

type Handler struct {
	vehicles *catalog.Service
	accounts *account.Service
	ledger   *booking.Ledger
}

func NewHandler(vehicles *catalog.Service, accounts *account.Service, ledger *booking.Ledger) *Handler {
	return &Handler{vehicles: vehicles, accounts: accounts, ledger: ledger}
}

// Register 挂载管理端路由，调用方需先套上 admin 命名空间校验。
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
}

type dashboardResponse struct {
	Vehicles []catalog.Vehicle   `json:"vehicles"`
	Users    []string            `json:"users"`
	Bookings map[string][]string `json:"bookings"`
}

// dashboard 一次性返回车队、注册用户与按用户分组的租约 ID。
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vehicles, err := h.vehicles.List(ctx)
	if err != nil {
		server.WriteError(w, http.StatusInternalServerError, "failed to list vehicles")
		return
	}
	users, err := h.accounts.ListUsernames(ctx, account.NamespaceUser)
	if err != nil {
		server.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	bookings, err := h.ledger.ListAll(ctx)
	if err != nil {
		server.WriteError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	server.WriteJSON(w, http.StatusOK, dashboardResponse{
		Vehicles: vehicles,
		Users:    users,
		Bookings: bookings,
	})
}
