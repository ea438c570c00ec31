// Package webchat serves the website chat widget over a WebSocket,
// bridging widget frames onto the conversation service.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/medichat/medichat-platform/internal/conversation"
	"github.com/medichat/medichat-platform/internal/schedule"
	"github.com/medichat/medichat-platform/pkg/logging"
)

// Responder produces the assistant reply for one user turn.
type Responder interface {
	HandleMessage(ctx context.Context, sessionID string, ev conversation.Event) (*conversation.Reply, error)
	Transcript(ctx context.Context, sessionID string, limit int64) ([]conversation.TranscriptLine, error)
}

// Handler manages web chat connections and messages.
type Handler struct {
	responder Responder
	logger    *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // sessionID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	done chan struct{}
}

// InboundFrame is what the widget sends. Type is "message" for typed text,
// one of the picker types, or "ping".
type InboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundFrame is what we send to the widget.
type OutboundFrame struct {
	Type            string           `json:"type"` // "message", "session", "history", "error", "pong"
	Text            string           `json:"text,omitempty"`
	Role            string           `json:"role,omitempty"`
	SessionID       string           `json:"session_id,omitempty"`
	Step            int              `json:"step,omitempty"`
	Doctors         []string         `json:"doctors,omitempty"`
	SuggestedDoctor string           `json:"suggested_doctor,omitempty"`
	Slots           []schedule.Slot  `json:"slots,omitempty"`
	Timestamp       string           `json:"timestamp,omitempty"`
	Messages        []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified transcript line for history frames.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(responder Responder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		responder: responder,
		logger:    logger,
		sessions:  make(map[string]*wsConn),
	}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundFrame{Type: "session", SessionID: sessionID})

	if lines, err := h.responder.Transcript(r.Context(), sessionID, 50); err == nil && len(lines) > 0 {
		history := make([]HistoryMessage, 0, len(lines))
		for _, line := range lines {
			history = append(history, HistoryMessage{
				Role:      line.Role,
				Text:      line.Text,
				Timestamp: line.Timestamp.Format(time.RFC3339),
			})
		}
		_ = websocket.JSON.Send(conn, OutboundFrame{Type: "history", Messages: history})
	}

	wsc := &wsConn{conn: conn, done: make(chan struct{})}
	h.mu.Lock()
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[sessionID] == wsc {
			delete(h.sessions, sessionID)
		}
		h.mu.Unlock()
		close(wsc.done)
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var frame InboundFrame
		if err := websocket.JSON.Receive(conn, &frame); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if frame.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundFrame{Type: "pong"})
			continue
		}

		ev, ok := eventFromFrame(frame)
		if !ok {
			continue
		}
		h.processTurn(r.Context(), conn, sessionID, ev)
	}
}

func eventFromFrame(frame InboundFrame) (conversation.Event, bool) {
	switch frame.Type {
	case "message":
		if strings.TrimSpace(frame.Text) == "" {
			return conversation.Event{}, false
		}
		return conversation.Event{Kind: conversation.EventText, Value: frame.Text}, true
	case "date_selected":
		return conversation.Event{Kind: conversation.EventDateSelected, Value: frame.Text}, true
	case "doctor_selected":
		return conversation.Event{Kind: conversation.EventDoctorSelected, Value: frame.Text}, true
	case "time_selected":
		return conversation.Event{Kind: conversation.EventTimeSelected, Value: frame.Text}, true
	default:
		return conversation.Event{}, false
	}
}

func (h *Handler) processTurn(ctx context.Context, conn *websocket.Conn, sessionID string, ev conversation.Event) {
	reply, err := h.responder.HandleMessage(ctx, sessionID, ev)
	if err != nil {
		h.logger.Error("webchat: turn failed", "error", err, "session_id", sessionID)
		_ = websocket.JSON.Send(conn, OutboundFrame{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}

	_ = websocket.JSON.Send(conn, OutboundFrame{
		Type:            "message",
		Role:            "assistant",
		Text:            reply.Text,
		SessionID:       reply.SessionID,
		Step:            int(reply.Step),
		Doctors:         reply.Doctors,
		SuggestedDoctor: reply.SuggestedDoctor,
		Slots:           reply.Slots,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	})
}

// SendToSession pushes a frame to an active connection, if any.
func (h *Handler) SendToSession(sessionID string, frame OutboundFrame) bool {
	h.mu.RLock()
	wsc, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	if err := websocket.JSON.Send(wsc.conn, frame); err != nil {
		h.logger.Debug("webchat: send failed", "session_id", sessionID, "error", err)
		return false
	}
	return true
}
