package conversation

import (
	"math/rand"
	"strings"
)

// Intent is the router's classification of one inbound message, produced
// once and consumed by the reply logic.
type Intent string

const (
	IntentGreeting Intent = "greeting"
	IntentFarewell Intent = "farewell"
	IntentBooking  Intent = "booking"
	IntentSymptoms Intent = "symptoms"
)

var greetings = map[string]bool{
	"hi":             true,
	"hello":          true,
	"hey":            true,
	"good morning":   true,
	"good afternoon": true,
	"good evening":   true,
	"howdy":          true,
}

var farewells = map[string]bool{
	"bye":         true,
	"goodbye":     true,
	"see you":     true,
	"take care":   true,
	"good night":  true,
	"bye bye":     true,
	"thanks, bye": true,
}

var greetingReplies = []string{
	"Hello! How can I help you today?",
	"Hi there! Tell me about your symptoms, or say \"book\" to schedule an appointment.",
	"Hello! I can help with medical questions or book you a doctor's appointment.",
}

var farewellReplies = []string{
	"Goodbye! Take care of yourself.",
	"Bye! Wishing you a speedy recovery.",
	"Take care! Come back any time.",
}

var bookingKeywords = []string{"appointment", "book", "schedule"}

// DetectIntent classifies one message. Booking keywords win over everything
// except exact greeting/farewell phrases, matching how users actually open
// the scheduling dialogue.
func DetectIntent(text string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if greetings[normalized] {
		return IntentGreeting
	}
	if farewells[normalized] {
		return IntentFarewell
	}
	for _, kw := range bookingKeywords {
		if strings.Contains(normalized, kw) {
			return IntentBooking
		}
	}
	return IntentSymptoms
}

// GreetingReply picks a canned greeting response.
func GreetingReply() string {
	return greetingReplies[rand.Intn(len(greetingReplies))]
}

// FarewellReply picks a canned farewell response.
func FarewellReply() string {
	return farewellReplies[rand.Intn(len(farewellReplies))]
}
