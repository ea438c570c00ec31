package conversation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medichat/medichat-platform/internal/catalog"
	"github.com/medichat/medichat-platform/internal/classifier"
	"github.com/medichat/medichat-platform/internal/observability/metrics"
	"github.com/medichat/medichat-platform/internal/schedule"
	"github.com/medichat/medichat-platform/pkg/logging"
)

// SlotLister supplies the free/occupied grid that drives the time picker.
type SlotLister interface {
	AvailableSlots(ctx context.Context, date, doctor string) ([]schedule.Slot, error)
}

// Reply is one assistant turn. Doctors and Slots are populated when the
// dialogue reaches the corresponding picker step so the client can render
// the options.
type Reply struct {
	SessionID       string          `json:"session_id"`
	Text            string          `json:"text"`
	Step            Step            `json:"step"`
	Doctors         []string        `json:"doctors,omitempty"`
	SuggestedDoctor string          `json:"suggested_doctor,omitempty"`
	Slots           []schedule.Slot `json:"slots,omitempty"`
}

// Service routes inbound chat turns: it detects intent once per message,
// runs the booking stepper when a dialogue is in flight, and otherwise
// consults the symptom classifier.
type Service struct {
	sessions   *SessionStore
	stepper    *Stepper
	slots      SlotLister
	classifier classifier.Classifier
	threshold  float64
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService constructs the conversation service.
func NewService(sessions *SessionStore, stepper *Stepper, slots SlotLister, clf classifier.Classifier, threshold float64, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if sessions == nil {
		panic("conversation: session store required")
	}
	if stepper == nil {
		panic("conversation: stepper required")
	}
	if threshold <= 0 || threshold > 1 {
		threshold = 0.7
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sessions:   sessions,
		stepper:    stepper,
		slots:      slots,
		classifier: clf,
		threshold:  threshold,
		metrics:    m,
		logger:     logger,
	}
}

// HandleMessage consumes one user turn and produces the assistant reply.
// An empty sessionID starts a fresh session.
func (s *Service) HandleMessage(ctx context.Context, sessionID string, ev Event) (*Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var text string
	if sess.Booking() {
		s.metrics.ObserveChatTurn("booking")
		text = s.stepper.Handle(ctx, sess, ev)
	} else {
		text = s.routeIdle(ctx, sess, ev)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.recordTranscript(ctx, sessionID, ev, text)

	reply := &Reply{SessionID: sessionID, Text: text, Step: sess.Step}
	s.attachOptions(ctx, sess, reply)
	return reply, nil
}

// Transcript exposes the chat history for the client.
func (s *Service) Transcript(ctx context.Context, sessionID string, limit int64) ([]TranscriptLine, error) {
	return s.sessions.Transcript(ctx, sessionID, limit)
}

// SlotsForSession returns the grid for the session's chosen date and doctor.
func (s *Service) SlotsForSession(ctx context.Context, sessionID string) ([]schedule.Slot, error) {
	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step != StepTime || sess.Details.Date == "" || sess.Details.Doctor == "" {
		return nil, fmt.Errorf("conversation: session %s is not at the time selection step", sessionID)
	}
	return s.slots.AvailableSlots(ctx, sess.Details.Date, sess.Details.Doctor)
}

func (s *Service) routeIdle(ctx context.Context, sess *Session, ev Event) string {
	intent := DetectIntent(ev.Value)
	s.metrics.ObserveChatTurn(string(intent))

	switch intent {
	case IntentGreeting:
		return GreetingReply()
	case IntentFarewell:
		return FarewellReply()
	case IntentBooking:
		return s.stepper.Begin(sess)
	default:
		return s.diagnose(ctx, sess, ev.Value)
	}
}

func (s *Service) diagnose(ctx context.Context, sess *Session, text string) string {
	if s.classifier == nil {
		return "I can help you book an appointment. Say \"book\" to get started."
	}
	pred, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.logger.Error("classifier call failed", "error", err)
		return "I encountered an error while processing your request. Please try again."
	}
	if pred.Confidence < s.threshold {
		return "Could you please provide more details about your symptoms? I need more information to understand them fully."
	}
	if _, known := catalog.DoctorFor(pred.Label); !known {
		return "No diagnosis available."
	}
	sess.PredictedCondition = pred.Label
	return fmt.Sprintf("Given your symptoms, it seems likely that you might have %s. %s",
		pred.Label, catalog.AdviceFor(pred.Label))
}

func (s *Service) attachOptions(ctx context.Context, sess *Session, reply *Reply) {
	switch sess.Step {
	case StepDoctor:
		reply.Doctors = catalog.Doctors()
		if sess.PredictedCondition != "" {
			if doctor, ok := catalog.DoctorFor(sess.PredictedCondition); ok {
				reply.SuggestedDoctor = doctor
			}
		}
	case StepTime:
		if s.slots == nil {
			return
		}
		slots, err := s.slots.AvailableSlots(ctx, sess.Details.Date, sess.Details.Doctor)
		if err != nil {
			s.logger.Error("slot listing failed", "error", err, "date", sess.Details.Date, "doctor", sess.Details.Doctor)
			return
		}
		reply.Slots = slots
	}
}

func (s *Service) recordTranscript(ctx context.Context, sessionID string, ev Event, replyText string) {
	userText := ev.Value
	switch ev.Kind {
	case EventDateSelected:
		userText = "selected date " + ev.Value
	case EventDoctorSelected:
		userText = "selected doctor " + ev.Value
	case EventTimeSelected:
		userText = "selected time " + ev.Value
	}
	if err := s.sessions.AppendTranscript(ctx, sessionID, TranscriptLine{Role: "user", Text: userText}); err != nil {
		s.logger.Error("transcript append failed", "error", err)
	}
	if err := s.sessions.AppendTranscript(ctx, sessionID, TranscriptLine{Role: "assistant", Text: replyText}); err != nil {
		s.logger.Error("transcript append failed", "error", err)
	}
}
