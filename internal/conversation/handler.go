package conversation

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/medichat/medichat-platform/pkg/logging"
)

// Handler handles HTTP requests for the chat front-end
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new conversation handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// MessageRequest is one inbound chat turn. Kind defaults to typed text;
// the date/doctor/time pickers set it explicitly.
type MessageRequest struct {
	SessionID string    `json:"session_id"`
	Kind      EventKind `json:"kind"`
	Value     string    `json:"value"`
}

// PostMessage handles POST /chat/messages requests.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat message", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		req.Kind = EventText
	}
	if req.Kind == EventText && strings.TrimSpace(req.Value) == "" {
		http.Error(w, "message text is required", http.StatusBadRequest)
		return
	}

	reply, err := h.service.HandleMessage(r.Context(), req.SessionID, Event{Kind: req.Kind, Value: req.Value})
	if err != nil {
		h.logger.Error("chat turn failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

// TranscriptResponse is the chat history for one session.
type TranscriptResponse struct {
	SessionID string           `json:"session_id"`
	Lines     []TranscriptLine `json:"lines"`
}

// GetTranscript handles GET /chat/sessions/{sessionID}/transcript requests.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	var limit int64
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	lines, err := h.service.Transcript(r.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("failed to load transcript", "error", err, "session_id", sessionID)
		http.Error(w, "failed to load transcript", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TranscriptResponse{SessionID: sessionID, Lines: lines})
}

// GetSlots handles GET /chat/sessions/{sessionID}/slots requests. It serves
// the time picker once the dialogue has a date and doctor.
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	slots, err := h.service.SlotsForSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to list session slots", "error", err, "session_id", sessionID)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"session_id": sessionID, "slots": slots})
}
