package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/medichat/medichat-platform/internal/appointments"
	"github.com/medichat/medichat-platform/internal/classifier"
	"github.com/medichat/medichat-platform/internal/schedule"
)

type fakeSlots struct {
	slots []schedule.Slot
	err   error
	calls int
}

func (f *fakeSlots) AvailableSlots(ctx context.Context, date, doctor string) ([]schedule.Slot, error) {
	f.calls++
	return f.slots, f.err
}

func newTestService(t *testing.T, booker *fakeBooker, clf classifier.Classifier, slots SlotLister) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := NewSessionStore(client, time.Hour)
	stepper := newTestStepper(nil, booker)
	return NewService(sessions, stepper, slots, clf, 0.7, nil, nil)
}

func TestHandleMessageAssignsSessionID(t *testing.T) {
	svc := newTestService(t, &fakeBooker{}, nil, nil)

	reply, err := svc.HandleMessage(context.Background(), "", Event{Kind: EventText, Value: "hello"})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
	found := false
	for _, canned := range greetingReplies {
		if reply.Text == canned {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a greeting reply, got %q", reply.Text)
	}
}

func TestHandleMessageBookingIntentStartsDialogue(t *testing.T) {
	svc := newTestService(t, &fakeBooker{}, nil, nil)
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "s1", Event{Kind: EventText, Value: "I want to book an appointment"})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Step != StepFirstName {
		t.Fatalf("expected cursor at first name, got %d", reply.Step)
	}

	// The next turn must land in the stepper, not the intent router.
	reply, err = svc.HandleMessage(ctx, "s1", Event{Kind: EventText, Value: "Alice"})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Step != StepLastName {
		t.Fatalf("expected cursor at last name, got %d", reply.Step)
	}
	if reply.Text != "Could you please provide your last name?" {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}

func TestHandleMessageLowConfidenceAsksForDetails(t *testing.T) {
	clf := &classifier.Stub{Prediction: classifier.Prediction{Label: "Migraine", Confidence: 0.4}}
	svc := newTestService(t, &fakeBooker{}, clf, nil)

	reply, err := svc.HandleMessage(context.Background(), "s1", Event{Kind: EventText, Value: "my head hurts a bit"})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Text != "Could you please provide more details about your symptoms? I need more information to understand them fully." {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}

func TestHandleMessageConfidentDiagnosisSuggestsDoctor(t *testing.T) {
	clf := &classifier.Stub{Prediction: classifier.Prediction{Label: "Migraine", Confidence: 0.92}}
	svc := newTestService(t, &fakeBooker{}, clf, nil)
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "s1", Event{Kind: EventText, Value: "throbbing pain on one side of my head"})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Text == "" || reply.Text == "No diagnosis available." {
		t.Fatalf("expected a diagnosis, got %q", reply.Text)
	}

	// Walk the dialogue to the doctor step; the predicted condition should
	// surface as the suggested specialist.
	turns := []Event{
		{Kind: EventText, Value: "book"},
		{Kind: EventText, Value: "Alice"},
		{Kind: EventText, Value: "Walker"},
		{Kind: EventText, Value: "alice@example.com"},
		{Kind: EventText, Value: "12345678901"},
		{Kind: EventDateSelected, Value: "2026-03-16"},
	}
	for _, ev := range turns {
		reply, err = svc.HandleMessage(ctx, "s1", ev)
		if err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
	}
	if reply.Step != StepDoctor {
		t.Fatalf("expected cursor at doctor step, got %d", reply.Step)
	}
	if len(reply.Doctors) == 0 {
		t.Fatal("expected doctor options at the doctor step")
	}
	if reply.SuggestedDoctor == "" {
		t.Fatal("expected a suggested doctor from the predicted condition")
	}
}

func TestHandleMessageAttachesSlotsAtTimeStep(t *testing.T) {
	slots := &fakeSlots{slots: []schedule.Slot{
		{Time: "07:00"},
		{Time: "07:30", Occupied: true},
	}}
	svc := newTestService(t, &fakeBooker{}, nil, slots)
	ctx := context.Background()

	turns := []Event{
		{Kind: EventText, Value: "book"},
		{Kind: EventText, Value: "Alice"},
		{Kind: EventText, Value: "Walker"},
		{Kind: EventText, Value: "alice@example.com"},
		{Kind: EventText, Value: "12345678901"},
		{Kind: EventDateSelected, Value: "2026-03-16"},
		{Kind: EventDoctorSelected, Value: testDoctor},
	}
	var reply *Reply
	var err error
	for _, ev := range turns {
		reply, err = svc.HandleMessage(ctx, "s1", ev)
		if err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
	}
	if reply.Step != StepTime {
		t.Fatalf("expected cursor at time step, got %d", reply.Step)
	}
	if len(reply.Slots) != 2 {
		t.Fatalf("expected slot grid in reply, got %+v", reply.Slots)
	}
}

func TestHandleMessageCompletesBooking(t *testing.T) {
	booker := &fakeBooker{result: appointments.BookingResult{Number: 654321, EmailSent: true}}
	svc := newTestService(t, booker, nil, &fakeSlots{})
	ctx := context.Background()

	turns := []Event{
		{Kind: EventText, Value: "book"},
		{Kind: EventText, Value: "Alice"},
		{Kind: EventText, Value: "Walker"},
		{Kind: EventText, Value: "alice@example.com"},
		{Kind: EventText, Value: "12345678901"},
		{Kind: EventDateSelected, Value: "2026-03-16"},
		{Kind: EventDoctorSelected, Value: testDoctor},
		{Kind: EventTimeSelected, Value: "10:30"},
	}
	var reply *Reply
	var err error
	for _, ev := range turns {
		reply, err = svc.HandleMessage(ctx, "s1", ev)
		if err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
	}
	if reply.Text != "Your appointment has been successfully booked!" {
		t.Fatalf("unexpected final reply: %q", reply.Text)
	}
	if reply.Step != StepIdle {
		t.Fatal("session should return to idle after booking")
	}
	if len(booker.booked) != 1 {
		t.Fatalf("expected one committed booking, got %d", len(booker.booked))
	}
	if got := booker.booked[0]; got.Time != "10:30" || got.Doctor != testDoctor {
		t.Fatalf("unexpected booking: %+v", got)
	}

	transcript, err := svc.Transcript(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if len(transcript) != 2*len(turns) {
		t.Fatalf("expected %d transcript lines, got %d", 2*len(turns), len(transcript))
	}
}

func TestHandleMessageClassifierFailure(t *testing.T) {
	clf := &classifier.Stub{Err: errors.New("model offline")}
	svc := newTestService(t, &fakeBooker{}, clf, nil)

	reply, err := svc.HandleMessage(context.Background(), "s1", Event{Kind: EventText, Value: "I feel dizzy"})
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply.Text != "I encountered an error while processing your request. Please try again." {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}
