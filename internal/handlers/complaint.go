// Package handlers contains HTTP request handlers for the RailSahayak API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/railsahayak/complaint-server/internal/services"
	"go.uber.org/zap"
)

// ComplaintHandler handles complaint-related HTTP endpoints
type ComplaintHandler struct {
	intakeSvc *services.IntakeService
	logger    *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(is *services.IntakeService, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{intakeSvc: is, logger: logger}
}

// Submit handles POST /api/complaints
// Every path ends in one of three bodies: the acknowledgment,
// the validation error, or the generic server error.
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.logger.Errorw("Failed to read complaint body", "error", err)
		respondError(w, http.StatusInternalServerError, services.MsgInternalError)
		return
	}

	ack, err := h.intakeSvc.Acknowledge(r.Context(), body)
	switch {
	case errors.Is(err, services.ErrValidation):
		h.logger.Infow("Complaint rejected", "reason", err.Error())
		respondError(w, http.StatusBadRequest, services.MsgValidationFailed)
		return
	case err != nil:
		h.logger.Errorw("Error in POST /api/complaints", "error", err)
		respondError(w, http.StatusInternalServerError, services.MsgInternalError)
		return
	}

	respondJSON(w, http.StatusCreated, ack)
}

// Options handles GET /api/complaints/options
func (h *ComplaintHandler) Options(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, services.ComplaintOptions())
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a small optional JSON body; an empty body leaves v untouched
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
