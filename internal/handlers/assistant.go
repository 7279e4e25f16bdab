package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/railsahayak/complaint-server/internal/models"
	"github.com/railsahayak/complaint-server/internal/services"
	"go.uber.org/zap"
)

// AssistantHandler exposes assistant sessions to the chat widget
type AssistantHandler struct {
	store    *services.SessionStore
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(store *services.SessionStore, logger *zap.SugaredLogger) *AssistantHandler {
	return &AssistantHandler{store: store, validate: validator.New(), logger: logger}
}

// CreateSession handles POST /api/assistant/sessions
func (h *AssistantHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conv, err := h.store.Create(req.Language)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, conv.Snapshot())
}

// Send handles POST /api/assistant/sessions/{sessionID}/messages
func (h *AssistantHandler) Send(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accepted, err := conv.Send(req.Content)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	status := http.StatusAccepted
	if !accepted {
		status = http.StatusOK
	}
	respondJSON(w, status, models.SendMessageResponse{Accepted: accepted, State: conv.State()})
}

// Messages handles GET /api/assistant/sessions/{sessionID}/messages
func (h *AssistantHandler) Messages(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, conv.Snapshot())
}

// SetLanguage handles PUT /api/assistant/sessions/{sessionID}/language
func (h *AssistantHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req models.SetLanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Language is required")
		return
	}

	if err := conv.SetLanguage(req.Language); err != nil {
		h.respondSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Close handles DELETE /api/assistant/sessions/{sessionID}
func (h *AssistantHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "sessionID")); err != nil {
		h.respondSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuickActions handles GET /api/assistant/quick-actions
func (h *AssistantHandler) QuickActions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, services.QuickActions())
}

func (h *AssistantHandler) lookup(w http.ResponseWriter, r *http.Request) (*services.Conversation, bool) {
	conv, err := h.store.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondSessionError(w, err)
		return nil, false
	}
	return conv, true
}

func (h *AssistantHandler) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrSessionClosed):
		respondError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, services.ErrUnsupportedLanguage):
		respondError(w, http.StatusBadRequest, "Unsupported language")
	case errors.Is(err, services.ErrSessionLimit):
		respondError(w, http.StatusServiceUnavailable, "Assistant is busy. Please try again later.")
	default:
		h.logger.Errorw("Assistant request failed", "error", err)
		respondError(w, http.StatusInternalServerError, services.MsgInternalError)
	}
}
