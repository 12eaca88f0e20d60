package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ashankshah/solace/internal/interview"
	"github.com/ashankshah/solace/internal/model"
	"github.com/ashankshah/solace/internal/service"
	"github.com/ashankshah/solace/internal/transport/rest/middleware"
)

// IntakeHandler handles the patient-facing interview endpoints
type IntakeHandler struct {
	intakeSvc *service.IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeSvc *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeSvc: intakeSvc}
}

// StartRequest is the request body for opening an intake session
type StartRequest struct {
	PatientName string `json:"patientName"`
}

// Start handles POST /v1/clinics/{code}/intake
func (h *IntakeHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PatientName == "" {
		writeError(w, http.StatusBadRequest, "patientName is required")
		return
	}

	result, err := h.intakeSvc.StartSession(r.Context(), code, req.PatientName)
	if errors.Is(err, service.ErrClinicNotFound) {
		writeError(w, http.StatusNotFound, "clinic not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Current handles GET /v1/intake/current
func (h *IntakeHandler) Current(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	view, err := h.intakeSvc.Current(r.Context(), sessionID)
	if err != nil {
		h.writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SubmitAnswer handles POST /v1/intake/answers
func (h *IntakeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var ans model.Answer
	if err := json.NewDecoder(r.Body).Decode(&ans); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.intakeSvc.SubmitAnswer(r.Context(), sessionID, ans)
	if err != nil {
		h.writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Back handles POST /v1/intake/back
func (h *IntakeHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	view, err := h.intakeSvc.Back(r.Context(), sessionID)
	if err != nil {
		h.writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Skip handles POST /v1/intake/skip
func (h *IntakeHandler) Skip(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	view, err := h.intakeSvc.Skip(r.Context(), sessionID)
	if err != nil {
		h.writeIntakeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Sessions handles GET /v1/clinics/{code}/sessions (clinician dashboard)
func (h *IntakeHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	sessions, err := h.intakeSvc.ListSessions(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// writeIntakeError maps engine rejections to 4xx and everything else to 5xx.
func (h *IntakeHandler) writeIntakeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, interview.ErrNoCurrentQuestion),
		errors.Is(err, interview.ErrSkipRequired),
		errors.Is(err, model.ErrAnswerQuestionMismatch),
		errors.Is(err, model.ErrAnswerTypeMismatch),
		errors.Is(err, model.ErrAnswerRequired),
		errors.Is(err, model.ErrAnswerInvalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
