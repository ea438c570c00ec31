// Package validate holds the input predicates used by the booking flows.
package validate

import (
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	nameRe  = regexp.MustCompile(`[^a-zA-Z\s]`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\d{11}$`)
	digitRe = regexp.MustCompile(`^\d+$`)
)

// Name reports whether s contains only letters and whitespace. Emptiness is
// the caller's concern.
func Name(s string) bool {
	return !nameRe.MatchString(s)
}

// EmailSyntax reports whether s has local@domain.tld shape.
func EmailSyntax(s string) bool {
	return emailRe.MatchString(s)
}

// Domain extracts the domain part of an address that passed EmailSyntax.
func Domain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}

// Phone reports whether s is exactly 11 decimal digits.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// AppointmentNumber reports whether s is a non-empty decimal string.
func AppointmentNumber(s string) bool {
	return digitRe.MatchString(s)
}

// Date reports whether s parses as YYYY-MM-DD and is today or later.
func Date(s string, now time.Time) bool {
	d, err := time.ParseInLocation(dateLayout, s, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}

// FutureDateTime reports whether the combined date and time lie strictly
// after now. Booking steps take time, so this is checked again at commit.
func FutureDateTime(date, tm string, now time.Time) bool {
	at, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+tm, now.Location())
	if err != nil {
		return false
	}
	return at.After(now)
}
