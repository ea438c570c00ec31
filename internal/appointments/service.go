package appointments

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/medichat/medichat-platform/internal/observability/metrics"
	"github.com/medichat/medichat-platform/internal/schedule"
	"github.com/medichat/medichat-platform/internal/validate"
	"github.com/medichat/medichat-platform/pkg/logging"
)

var tracer = otel.Tracer("medichat.internal.appointments")

// numberRetries bounds regeneration attempts when a random appointment
// number collides with an existing row.
const numberRetries = 5

// Notifier delivers the booking confirmation with its cancellation link.
type Notifier interface {
	SendConfirmation(ctx context.Context, appt Appointment) error
}

// Hours describes the clinic's bookable window and slot granularity.
type Hours struct {
	Opening  string
	Closing  string
	Interval time.Duration
}

// Service owns the booking and cancellation pipelines.
type Service struct {
	store    Store
	verifier *validate.EmailVerifier
	notifier Notifier
	hours    Hours
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics

	now       func() time.Time
	newNumber func() int
}

// NewService constructs the appointments service.
func NewService(store Store, verifier *validate.EmailVerifier, notifier Notifier, hours Hours, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		verifier: verifier,
		notifier: notifier,
		hours:    hours,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
		newNumber: func() int {
			return rand.Intn(900000) + 100000
		},
	}
}

// ClinicHours returns the configured clinic window.
func (s *Service) ClinicHours() Hours {
	return s.hours
}

// Book commits an appointment collected by the conversational flow. Field
// formats were validated step by step; the future-instant, uniqueness and
// slot checks run again here because time passes between steps. The row is
// persisted regardless of whether the confirmation email goes out.
func (s *Service) Book(ctx context.Context, appt Appointment) (*BookingResult, error) {
	ctx, span := tracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("medichat.doctor", appt.Doctor),
		attribute.String("medichat.date", appt.Date),
	)

	if !validate.FutureDateTime(appt.Date, appt.Time, s.now()) {
		s.metrics.ObserveBooking("chat", "past_datetime")
		return nil, ErrPastDateTime
	}
	available, err := s.store.SlotAvailable(ctx, appt.Date, appt.Time, appt.Doctor)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !available {
		s.metrics.ObserveBooking("chat", "slot_taken")
		return nil, ErrSlotTaken
	}

	number, err := s.insertWithFreshNumber(ctx, appt)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("chat", outcomeFor(err))
		return nil, err
	}
	appt.Number = number

	sent := s.sendConfirmation(ctx, appt)
	s.metrics.ObserveBooking("chat", "booked")
	s.logger.Info("appointment booked",
		"appointment_number", number,
		"doctor", appt.Doctor,
		"date", appt.Date,
		"time", appt.Time,
		"email_sent", sent,
	)
	return &BookingResult{Number: number, EmailSent: sent}, nil
}

// BookForm commits an appointment submitted through the classic form. All
// checks run here in a fixed order, short-circuiting on the first failure.
// Unlike the conversational flow, the row is only persisted after the
// confirmation email is delivered.
func (s *Service) BookForm(ctx context.Context, appt Appointment) (*BookingResult, error) {
	ctx, span := tracer.Start(ctx, "appointments.book_form")
	defer span.End()

	if err := s.validateForm(ctx, &appt); err != nil {
		s.metrics.ObserveBooking("form", outcomeFor(err))
		return nil, err
	}

	number := s.newNumber()
	appt.Number = number
	if !s.sendConfirmation(ctx, appt) {
		s.metrics.ObserveBooking("form", "email_failed")
		return nil, ErrNotificationFailed
	}
	if err := s.store.Insert(ctx, appt); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("form", outcomeFor(err))
		return nil, err
	}

	s.metrics.ObserveBooking("form", "booked")
	s.logger.Info("appointment booked via form",
		"appointment_number", number,
		"doctor", appt.Doctor,
		"date", appt.Date,
		"time", appt.Time,
	)
	return &BookingResult{Number: number, EmailSent: true}, nil
}

func (s *Service) validateForm(ctx context.Context, appt *Appointment) error {
	appt.FirstName = strings.TrimSpace(appt.FirstName)
	appt.LastName = strings.TrimSpace(appt.LastName)
	appt.Email = strings.TrimSpace(appt.Email)
	appt.Phone = strings.TrimSpace(appt.Phone)

	switch {
	case !validate.Name(appt.FirstName) || !validate.Name(appt.LastName):
		return ErrNameFormat
	case appt.FirstName == "" || appt.LastName == "":
		return ErrMissingName
	case appt.Email == "":
		return ErrMissingEmail
	case appt.Phone == "":
		return ErrMissingPhone
	case s.verifier != nil && !s.verifier.Valid(ctx, appt.Email):
		return ErrInvalidEmail
	case !validate.Phone(appt.Phone):
		return ErrInvalidPhone
	case appt.Doctor == "":
		return ErrNoDoctor
	case !validate.Date(appt.Date, s.now()):
		return ErrInvalidDate
	}

	if taken, err := s.store.EmailExists(ctx, appt.Email); err != nil {
		return err
	} else if taken {
		return ErrEmailTaken
	}
	if taken, err := s.store.PhoneExists(ctx, appt.Phone); err != nil {
		return err
	} else if taken {
		return ErrPhoneTaken
	}
	if available, err := s.store.SlotAvailable(ctx, appt.Date, appt.Time, appt.Doctor); err != nil {
		return err
	} else if !available {
		return ErrSlotTaken
	}
	if !validate.FutureDateTime(appt.Date, appt.Time, s.now()) {
		return ErrPastDateTime
	}
	return nil
}

// Cancel validates the (number, email) pair and removes the matching row.
// Cancelling an already-cancelled appointment reports not found.
func (s *Service) Cancel(ctx context.Context, number, email string) error {
	ctx, span := tracer.Start(ctx, "appointments.cancel")
	defer span.End()

	email = strings.TrimSpace(email)
	number = strings.TrimSpace(number)
	if !validate.AppointmentNumber(number) {
		s.metrics.ObserveCancellation("invalid_input")
		return ErrNotFound
	}
	if s.verifier != nil && !s.verifier.Valid(ctx, email) {
		s.metrics.ObserveCancellation("invalid_input")
		return ErrInvalidEmail
	}
	n, err := strconv.Atoi(number)
	if err != nil {
		s.metrics.ObserveCancellation("invalid_input")
		return ErrNotFound
	}

	exists, err := s.store.Exists(ctx, n, email)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !exists {
		s.metrics.ObserveCancellation("not_found")
		return ErrNotFound
	}
	deleted, err := s.store.Delete(ctx, n, email)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !deleted {
		s.metrics.ObserveCancellation("not_found")
		return ErrNotFound
	}

	s.metrics.ObserveCancellation("cancelled")
	s.logger.Info("appointment cancelled", "appointment_number", n)
	return nil
}

// AvailableSlots returns the doctor's slot grid for the day, with past and
// occupied slots handled per the clinic hours.
func (s *Service) AvailableSlots(ctx context.Context, date, doctor string) ([]schedule.Slot, error) {
	occupied, err := s.store.OccupiedTimes(ctx, date, doctor)
	if err != nil {
		return nil, err
	}
	return schedule.Generate(s.hours.Opening, s.hours.Closing, s.hours.Interval,
		date, schedule.OccupiedSet(occupied), s.now())
}

// ListAll returns every appointment, for the admin surface.
func (s *Service) ListAll(ctx context.Context) ([]Appointment, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) insertWithFreshNumber(ctx context.Context, appt Appointment) (int, error) {
	for attempt := 0; attempt < numberRetries; attempt++ {
		appt.Number = s.newNumber()
		err := s.store.Insert(ctx, appt)
		if err == nil {
			return appt.Number, nil
		}
		if errors.Is(err, ErrNumberTaken) {
			continue
		}
		return 0, err
	}
	return 0, ErrNumberTaken
}

func (s *Service) sendConfirmation(ctx context.Context, appt Appointment) bool {
	if s.notifier == nil {
		return false
	}
	if err := s.notifier.SendConfirmation(ctx, appt); err != nil {
		s.logger.Error("confirmation email failed", "error", err, "appointment_number", appt.Number)
		return false
	}
	return true
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrPhoneTaken):
		return "phone_taken"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, ErrPastDateTime):
		return "past_datetime"
	case errors.Is(err, ErrNumberTaken):
		return "number_collision"
	case errors.Is(err, ErrNameFormat), errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingEmail), errors.Is(err, ErrMissingPhone),
		errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrNoDoctor), errors.Is(err, ErrInvalidDate):
		return "invalid_input"
	default:
		return "error"
	}
}
