package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ashankshah/solace/internal/model"
	"github.com/ashankshah/solace/internal/service"
)

// ClinicHandler handles clinic CRUD endpoints
type ClinicHandler struct {
	clinicSvc *service.ClinicService
}

// NewClinicHandler creates a new clinic handler
func NewClinicHandler(clinicSvc *service.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicSvc: clinicSvc}
}

// CreateClinicRequest is the request body for creating a clinic
type CreateClinicRequest struct {
	Code    string           `json:"code,omitempty"`
	Name    string           `json:"name"`
	Address string           `json:"address,omitempty"`
	Layout  model.RoomLayout `json:"layout,omitempty"`
}

// Create handles POST /v1/clinics
func (h *ClinicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "clinic name is required")
		return
	}

	clinic := &model.Clinic{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Layout:  req.Layout,
	}
	if err := h.clinicSvc.Create(r.Context(), clinic); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, clinic)
}

// List handles GET /v1/clinics
func (h *ClinicHandler) List(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"clinics": clinics})
}

// Get handles GET /v1/clinics/{code}
func (h *ClinicHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	clinic, err := h.clinicSvc.GetByCode(r.Context(), code)
	if errors.Is(err, service.ErrClinicNotFound) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, clinic)
}

// Update handles PUT /v1/clinics/{code}
func (h *ClinicHandler) Update(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req CreateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clinic := &model.Clinic{
		Code:    code,
		Name:    req.Name,
		Address: req.Address,
		Layout:  req.Layout,
	}
	if err := h.clinicSvc.Update(r.Context(), clinic); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, clinic)
}

// UpdateLayout handles PUT /v1/clinics/{code}/layout
func (h *ClinicHandler) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var layout model.RoomLayout
	if err := json.NewDecoder(r.Body).Decode(&layout); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.clinicSvc.UpdateLayout(r.Context(), code, layout); err != nil {
		if errors.Is(err, service.ErrClinicNotFound) {
			writeError(w, http.StatusNotFound, "clinic not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /v1/clinics/{code}
func (h *ClinicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.clinicSvc.Delete(r.Context(), code); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
