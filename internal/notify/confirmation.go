package notify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/medichat/medichat-platform/internal/appointments"
	"github.com/medichat/medichat-platform/pkg/logging"
)

// Service builds and delivers booking confirmations. The email carries a
// cancellation link that feeds the (appointment number, email) pair back into
// the cancellation flow.
type Service struct {
	sender  EmailSender
	baseURL string
	logger  *logging.Logger
}

// NewService constructs the confirmation service.
func NewService(sender EmailSender, publicBaseURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:  sender,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:  logger,
	}
}

// SendConfirmation delivers the booking confirmation email.
func (s *Service) SendConfirmation(ctx context.Context, appt appointments.Appointment) error {
	if s.sender == nil {
		return fmt.Errorf("notify: no email sender configured")
	}
	msg := EmailMessage{
		To:      appt.Email,
		ToName:  appt.FirstName + " " + appt.LastName,
		Subject: "Appointment Confirmation",
		Body:    s.confirmationBody(appt),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("confirmation sent", "appointment_number", appt.Number, "to", appt.Email)
	return nil
}

// CancelLink builds the link embedded in the confirmation email.
func (s *Service) CancelLink(number int, email string) string {
	q := url.Values{}
	q.Set("appointment_number", strconv.Itoa(number))
	q.Set("email", email)
	return s.baseURL + "/cancel?" + q.Encode()
}

func (s *Service) confirmationBody(appt appointments.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s %s,\n\n", appt.FirstName, appt.LastName)
	b.WriteString("Your appointment has been booked successfully. Here are your appointment details:\n\n")
	fmt.Fprintf(&b, "Appointment Number: %d\n", appt.Number)
	fmt.Fprintf(&b, "Name: %s %s\n", appt.FirstName, appt.LastName)
	fmt.Fprintf(&b, "Email: %s\n", appt.Email)
	fmt.Fprintf(&b, "Phone: %s\n", appt.Phone)
	fmt.Fprintf(&b, "Appointment Date: %s\n", appt.Date)
	fmt.Fprintf(&b, "Appointment Time: %s\n", appt.Time)
	fmt.Fprintf(&b, "Doctor: %s\n\n", appt.Doctor)
	b.WriteString("If you wish to cancel your appointment, please click the link below and enter your appointment number and email to confirm:\n")
	b.WriteString(s.CancelLink(appt.Number, appt.Email))
	b.WriteString("\n\nThank you for booking with us.\n\nBest regards,\nMedichat Team\n")
	return b.String()
}

var _ appointments.Notifier = (*Service)(nil)
