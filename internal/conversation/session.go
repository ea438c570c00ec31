// Package conversation drives the chat front-end: intent routing, the
// step-sequenced booking dialogue and its per-session state.
package conversation

// Step is the booking conversation cursor. Zero means no booking in flight;
// the machine returns to zero after a successful commit.
type Step int

const (
	StepIdle Step = iota
	StepFirstName
	StepLastName
	StepEmail
	StepPhone
	StepDate
	StepDoctor
	StepTime
)

// Details is the partially-filled appointment record, populated one step at
// a time as the dialogue progresses.
type Details struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Date      string `json:"date,omitempty"`
	Doctor    string `json:"doctor,omitempty"`
	Time      string `json:"time,omitempty"`
}

// Session is the transient state of one user's conversation. ChosenDate and
// SelectedTime bridge picker widgets back into the step handler; both are
// cleared once consumed. Sessions live in Redis with a TTL and are discarded
// on completion or abandonment.
type Session struct {
	ID           string  `json:"id"`
	Step         Step    `json:"step"`
	Details      Details `json:"details"`
	ChosenDate   string  `json:"chosen_date,omitempty"`
	SelectedTime string  `json:"selected_time,omitempty"`

	// PredictedCondition carries the last classifier verdict so the doctor
	// step can suggest the matching specialist.
	PredictedCondition string `json:"predicted_condition,omitempty"`
}

// Booking reports whether a booking dialogue is in flight.
func (s *Session) Booking() bool {
	return s.Step != StepIdle
}

// Reset clears all booking progress and returns the cursor to idle.
func (s *Session) Reset() {
	s.Step = StepIdle
	s.Details = Details{}
	s.ChosenDate = ""
	s.SelectedTime = ""
}

// EventKind discriminates how the user supplied a value: typed text or one
// of the picker widgets. All kinds feed the same transition function.
type EventKind string

const (
	EventText           EventKind = "text"
	EventDateSelected   EventKind = "date_selected"
	EventDoctorSelected EventKind = "doctor_selected"
	EventTimeSelected   EventKind = "time_selected"
)

// Event is one user turn, whatever the input modality.
type Event struct {
	Kind  EventKind `json:"kind"`
	Value string    `json:"value"`
}
