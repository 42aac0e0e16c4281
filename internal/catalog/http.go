package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DriveEzzy/DriveEzzy/internal/asset"
	"github.com/DriveEzzy/DriveEzzy/internal/common/server"
	"github.com/go-chi/chi/v5"
)

// Handler 车辆目录的 HTTP 传输层。
type Handler struct {
	svc    *Service
	assets *asset.Store
}

func NewHandler(svc *Service, assets *asset.Store) *Handler {
	return &Handler{svc: svc, assets: assets}
}

// Register 注册面向已登录用户的只读路由。
func (h *Handler) Register(r chi.Router) {
	r.Get("/vehicles", h.listVehicles)
	r.Get("/vehicles/{id}", h.getVehicle)
}

// RegisterAdmin 注册管理端路由（调用方需挂载 admin 命名空间校验）。
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/vehicles", h.createVehicle)
	r.Put("/vehicles/{id}", h.updateVehicle)
	r.Delete("/vehicles/{id}", h.deleteVehicle)
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.svc.List(r.Context())
	if err != nil {
		server.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, v)
}

// vehicleRequest JSON 方式的创建/编辑入参。
// PricePerDay 是指针：编辑时缺省表示“保持原价”，与 0 元区分开。
// 创建也支持 multipart 表单（带图片文件），见 parseVehicleForm。
type vehicleRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	PricePerDay *int64 `json:"price_per_day"`
	ImageRef    string `json:"image_reference"`
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	in, err := h.parseVehicleInput(r, nil)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	v, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	// 先取当前记录：入参没带价格时沿用原价
	cur, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	in, err := h.parseVehicleInput(r, &cur.PricePerDay)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	v, err := h.svc.Update(r.Context(), cur.ID, in)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeCatalogError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusNoContent, nil)
}

// parseVehicleInput 同时支持 JSON 与 multipart 表单两种入参。
// fallbackPrice 非 nil（编辑场景）时，缺省的价格字段取该值；
// 创建场景传 nil，缺省价格视为 0。
// multipart 时图片文件先落到资源存储，再把引用写进车辆记录。
func (h *Handler) parseVehicleInput(r *http.Request, fallbackPrice *int64) (VehicleInput, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return h.parseVehicleForm(r, fallbackPrice)
	}

	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return VehicleInput{}, errBadRequest
	}

	var price int64
	switch {
	case req.PricePerDay != nil:
		price = *req.PricePerDay
	case fallbackPrice != nil:
		price = *fallbackPrice
	}

	return VehicleInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		PricePerDay: price,
		ImageRef:    req.ImageRef,
	}, nil
}

func (h *Handler) parseVehicleForm(r *http.Request, fallbackPrice *int64) (VehicleInput, error) {
	// 32MB 内存上限，超出部分落临时文件
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return VehicleInput{}, errBadRequest
	}

	var price int64
	priceRaw := strings.TrimSpace(r.FormValue("price_per_day"))
	if priceRaw == "" && fallbackPrice != nil {
		price = *fallbackPrice
	} else {
		parsed, err := strconv.ParseInt(priceRaw, 10, 64)
		if err != nil || parsed < 0 {
			return VehicleInput{}, ErrInvalidPrice
		}
		price = parsed
	}

	in := VehicleInput{
		Name:        r.FormValue("vehicle_name"),
		Type:        r.FormValue("vehicle_type"),
		Description: r.FormValue("description"),
		PricePerDay: price,
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		ref, saveErr := h.assets.Save(header.Filename, io.LimitReader(file, 32<<20))
		if saveErr != nil {
			return VehicleInput{}, saveErr
		}
		in.ImageRef = ref
	} else if err != http.ErrMissingFile {
		return VehicleInput{}, errBadRequest
	}

	return in, nil
}

var errBadRequest = errors.New("invalid request body")

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		server.WriteError(w, http.StatusNotFound, "vehicle not found")
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidName), errors.Is(err, errBadRequest):
		server.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		server.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
