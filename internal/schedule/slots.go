// Package schedule computes the bookable time grid for a clinic day.
package schedule

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for slot times.
	TimeLayout = "15:04"
)

// Slot is a single point on the time grid and whether it is already booked.
type Slot struct {
	Time     string `json:"time"`
	Occupied bool   `json:"occupied"`
}

// Generate enumerates slots from start to end inclusive, stepping by interval.
// When day is non-empty, slots whose combined day+time are not strictly after
// now are dropped, so same-day bookings never offer a time that has passed.
// Slots present in occupied are marked as such. The result is chronological.
func Generate(start, end string, interval time.Duration, day string, occupied map[string]bool, now time.Time) ([]Slot, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("schedule: interval must be positive, got %s", interval)
	}
	cur, err := time.Parse(TimeLayout, start)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad start time %q: %w", start, err)
	}
	last, err := time.Parse(TimeLayout, end)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad end time %q: %w", end, err)
	}
	if last.Before(cur) {
		return nil, fmt.Errorf("schedule: end %q before start %q", end, start)
	}

	var date time.Time
	if day != "" {
		date, err = time.ParseInLocation(DateLayout, day, now.Location())
		if err != nil {
			return nil, fmt.Errorf("schedule: bad day %q: %w", day, err)
		}
	}

	var slots []Slot
	for !cur.After(last) {
		ts := cur.Format(TimeLayout)
		if day != "" {
			at := time.Date(date.Year(), date.Month(), date.Day(),
				cur.Hour(), cur.Minute(), 0, 0, now.Location())
			if !at.After(now) {
				cur = cur.Add(interval)
				continue
			}
		}
		slots = append(slots, Slot{Time: ts, Occupied: occupied[ts]})
		cur = cur.Add(interval)
	}
	return slots, nil
}

// OccupiedSet turns a list of booked times into the lookup map Generate expects.
func OccupiedSet(times []string) map[string]bool {
	set := make(map[string]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set
}
