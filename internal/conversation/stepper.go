package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/medichat/medichat-platform/internal/appointments"
	"github.com/medichat/medichat-platform/internal/catalog"
	"github.com/medichat/medichat-platform/internal/validate"
	"github.com/medichat/medichat-platform/pkg/logging"
)

// Booker commits a fully-collected appointment.
type Booker interface {
	Book(ctx context.Context, appt appointments.Appointment) (*appointments.BookingResult, error)
}

// UniquenessChecker answers whether contact details are already registered.
// The store-level constraints remain the authoritative guard; these checks
// exist so the user hears about a clash at the step where they typed it.
type UniquenessChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

// Stepper advances a booking session through the seven collection steps.
// It is the single entry point for every input modality: typed text and the
// date/doctor/time pickers all arrive as Events.
type Stepper struct {
	checker  UniquenessChecker
	verifier *validate.EmailVerifier
	booker   Booker
	logger   *logging.Logger
	now      func() time.Time
}

// NewStepper constructs the step transition handler.
func NewStepper(checker UniquenessChecker, verifier *validate.EmailVerifier, booker Booker, logger *logging.Logger) *Stepper {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stepper{
		checker:  checker,
		verifier: verifier,
		booker:   booker,
		logger:   logger,
		now:      time.Now,
	}
}

// Begin puts the session at the first collection step.
func (st *Stepper) Begin(sess *Session) string {
	sess.Reset()
	sess.Step = StepFirstName
	return "Sure, I can help you with booking an appointment. What is your first name?"
}

// Handle consumes one event and returns the reply. Validation failures never
// advance the cursor; the same step simply re-prompts.
func (st *Stepper) Handle(ctx context.Context, sess *Session, ev Event) string {
	switch ev.Kind {
	case EventDateSelected:
		sess.ChosenDate = ev.Value
	case EventTimeSelected:
		sess.SelectedTime = ev.Value
	}

	switch sess.Step {
	case StepFirstName:
		return st.handleFirstName(sess, ev.Value)
	case StepLastName:
		return st.handleLastName(sess, ev.Value)
	case StepEmail:
		return st.handleEmail(ctx, sess, ev.Value)
	case StepPhone:
		return st.handlePhone(ctx, sess, ev.Value)
	case StepDate:
		return st.handleDate(sess)
	case StepDoctor:
		return st.handleDoctor(sess, ev.Value)
	case StepTime:
		return st.handleTime(ctx, sess, ev.Value)
	default:
		return "I'm not sure what you mean. Say \"book\" if you would like to schedule an appointment."
	}
}

func (st *Stepper) handleFirstName(sess *Session, input string) string {
	name := strings.TrimSpace(input)
	if name == "" || !validate.Name(name) {
		return "Please enter a first name using letters only, avoiding numbers or symbols."
	}
	sess.Details.FirstName = name
	sess.Step = StepLastName
	return "Could you please provide your last name?"
}

func (st *Stepper) handleLastName(sess *Session, input string) string {
	name := strings.TrimSpace(input)
	if name == "" || !validate.Name(name) {
		return "Please enter a last name using letters only, avoiding numbers or symbols."
	}
	sess.Details.LastName = name
	sess.Step = StepEmail
	return "Could you please provide your email address?"
}

func (st *Stepper) handleEmail(ctx context.Context, sess *Session, input string) string {
	email := strings.TrimSpace(input)
	if st.verifier == nil || !st.verifier.Valid(ctx, email) {
		return "The email address provided is invalid. Please enter a valid email address."
	}
	if taken, err := st.checker.EmailExists(ctx, email); err != nil {
		st.logger.Error("email existence check failed", "error", err)
		return "I couldn't verify your email right now. Please try again."
	} else if taken {
		return "An appointment with this email already exists. Please provide a different email."
	}
	sess.Details.Email = email
	sess.Step = StepPhone
	return "Could you please provide your phone number?"
}

func (st *Stepper) handlePhone(ctx context.Context, sess *Session, input string) string {
	phone := strings.TrimSpace(input)
	if !validate.Phone(phone) {
		return "The phone number must be exactly 11 digits. Please enter a valid phone number."
	}
	if taken, err := st.checker.PhoneExists(ctx, phone); err != nil {
		st.logger.Error("phone existence check failed", "error", err)
		return "I couldn't verify your phone number right now. Please try again."
	} else if taken {
		return "An appointment with this phone number already exists. Please provide a different phone number."
	}
	sess.Details.Phone = phone
	sess.Step = StepDate
	return "Thanks! Please choose a date for the appointment."
}

func (st *Stepper) handleDate(sess *Session) string {
	if sess.ChosenDate == "" {
		return "Please choose a date for the appointment using the calendar."
	}
	date := sess.ChosenDate
	sess.ChosenDate = ""
	if !validate.Date(date, st.now()) {
		return "The chosen date is in the past. Please provide a valid date (YYYY-MM-DD)."
	}
	sess.Details.Date = date
	sess.Step = StepDoctor
	return "Please choose a doctor from the options below."
}

func (st *Stepper) handleDoctor(sess *Session, input string) string {
	doctor := strings.TrimSpace(input)
	if !catalog.IsDoctor(doctor) {
		return "Please choose a doctor from the options below."
	}
	sess.Details.Doctor = doctor
	sess.Step = StepTime
	return "Please select a time for the appointment from the options below."
}

func (st *Stepper) handleTime(ctx context.Context, sess *Session, input string) string {
	tm := sess.SelectedTime
	sess.SelectedTime = ""
	if tm == "" {
		tm = strings.TrimSpace(input)
	}

	appt := appointments.Appointment{
		FirstName: sess.Details.FirstName,
		LastName:  sess.Details.LastName,
		Email:     sess.Details.Email,
		Phone:     sess.Details.Phone,
		Date:      sess.Details.Date,
		Time:      tm,
		Doctor:    sess.Details.Doctor,
	}

	res, err := st.booker.Book(ctx, appt)
	switch {
	case err == nil:
		sess.Reset()
		if res.EmailSent {
			return "Your appointment has been successfully booked!"
		}
		return "Your appointment has been booked, but we couldn't send the confirmation email. Please contact support."
	case errors.Is(err, appointments.ErrPastDateTime):
		return "The chosen date and time are not available. Please select a valid time (HH:MM)."
	case errors.Is(err, appointments.ErrSlotTaken):
		return "The chosen time slot is already booked for the selected doctor. Please select a different time."
	case errors.Is(err, appointments.ErrEmailTaken):
		return "An appointment with this email already exists. Please provide a different email."
	case errors.Is(err, appointments.ErrPhoneTaken):
		return "An appointment with this phone number already exists. Please provide a different phone number."
	default:
		st.logger.Error("booking commit failed", "error", err)
		return "An error occurred while booking the appointment: " + err.Error()
	}
}
