// Package router wires HTTP routes onto the chi mux.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medichat/medichat-platform/internal/appointments"
	"github.com/medichat/medichat-platform/internal/conversation"
	httpmiddleware "github.com/medichat/medichat-platform/internal/http/middleware"
	"github.com/medichat/medichat-platform/internal/webchat"
	"github.com/medichat/medichat-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AppointmentsHandler *appointments.Handler
	ChatHandler         *conversation.Handler
	WebchatHandler      *webchat.Handler
	MetricsHandler      http.Handler
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
}

// New creates a new chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)

	if cfg.ChatHandler != nil {
		r.Route("/chat", func(chat chi.Router) {
			chat.Post("/messages", cfg.ChatHandler.PostMessage)
			chat.Route("/sessions/{sessionID}", func(sess chi.Router) {
				sess.Get("/transcript", cfg.ChatHandler.GetTranscript)
				sess.Get("/slots", cfg.ChatHandler.GetSlots)
			})
			if cfg.WebchatHandler != nil {
				chat.Get("/ws", cfg.WebchatHandler.HandleWebSocket)
			}
		})
	}

	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(appts chi.Router) {
			appts.Post("/", cfg.AppointmentsHandler.Book)
			appts.Get("/slots", cfg.AppointmentsHandler.Slots)
			appts.Post("/cancel", cfg.AppointmentsHandler.Cancel)
		})
		// Cancellation link target from the confirmation email.
		r.Get("/cancel", cfg.AppointmentsHandler.CancelPrefill)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.AdminAuthSecret != "" && cfg.AppointmentsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/appointments", cfg.AppointmentsHandler.List)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
