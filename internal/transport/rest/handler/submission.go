package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ashankshah/solace/internal/service"
)

// SubmissionHandler handles clinician review of completed intakes
type SubmissionHandler struct {
	submissionSvc *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// ListByClinic handles GET /v1/clinics/{code}/submissions
func (h *SubmissionHandler) ListByClinic(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	subs, err := h.submissionSvc.ListByClinic(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

// Get handles GET /v1/submissions/{id}
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sub, err := h.submissionSvc.GetByID(r.Context(), id)
	if errors.Is(err, service.ErrSubmissionNotFound) {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Delete handles DELETE /v1/submissions/{id}
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.submissionSvc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
