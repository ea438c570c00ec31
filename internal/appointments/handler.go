package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medichat/medichat-platform/internal/schedule"
	"github.com/medichat/medichat-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// BookRequest is the direct booking form payload.
type BookRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Doctor    string `json:"doctor"`
}

// BookResponse carries the assigned appointment number.
type BookResponse struct {
	AppointmentNumber int    `json:"appointment_number"`
	EmailSent         bool   `json:"email_sent"`
	Message           string `json:"message"`
}

// Book handles POST /appointments requests (the direct booking form).
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.BookForm(r.Context(), Appointment{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Date:      req.Date,
		Time:      req.Time,
		Doctor:    req.Doctor,
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}

	h.logger.Info("appointment booked via form", "appointment_number", res.Number, "doctor", req.Doctor)
	writeJSON(w, http.StatusCreated, BookResponse{
		AppointmentNumber: res.Number,
		EmailSent:         res.EmailSent,
		Message:           "Your appointment has been successfully booked!",
	})
}

// SlotsResponse is the free/occupied grid for one doctor and date.
type SlotsResponse struct {
	Date   string          `json:"date"`
	Doctor string          `json:"doctor"`
	Slots  []schedule.Slot `json:"slots"`
}

// Slots handles GET /appointments/slots?date=...&doctor=... requests.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	doctor := r.URL.Query().Get("doctor")
	if date == "" || doctor == "" {
		http.Error(w, "date and doctor are required", http.StatusBadRequest)
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), date, doctor)
	if err != nil {
		h.logger.Error("failed to list slots", "error", err, "date", date, "doctor", doctor)
		http.Error(w, "failed to list slots", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, SlotsResponse{Date: date, Doctor: doctor, Slots: slots})
}

// CancelRequest identifies the appointment to cancel.
type CancelRequest struct {
	AppointmentNumber string `json:"appointment_number"`
	Email             string `json:"email"`
}

// Cancel handles POST /appointments/cancel requests.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode cancel request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Cancel(r.Context(), req.AppointmentNumber, req.Email); err != nil {
		writeBookingError(w, err)
		return
	}

	h.logger.Info("appointment cancelled", "appointment_number", req.AppointmentNumber)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Your appointment has been successfully cancelled.",
	})
}

// CancelPrefill handles GET /cancel requests, the landing target of the
// cancellation link in the confirmation email. It echoes the query
// parameters back so the client can prefill the cancellation form.
func (h *Handler) CancelPrefill(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CancelRequest{
		AppointmentNumber: r.URL.Query().Get("appointment_number"),
		Email:             r.URL.Query().Get("email"),
	})
}

// ListResponse is the admin listing of all appointments.
type ListResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

// List handles GET /admin/appointments requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Appointments: appts, Count: len(appts)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeBookingError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrPhoneTaken),
		errors.Is(err, ErrSlotTaken):
		status = http.StatusConflict
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrNotificationFailed):
		status = http.StatusBadGateway
	case errors.Is(err, ErrNameFormat),
		errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingEmail),
		errors.Is(err, ErrMissingPhone),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrNoDoctor),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrPastDateTime):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
