package appointments

// Appointment is one booked visit. Rows are created by the booking flows and
// removed by cancellation; they are never updated in place.
type Appointment struct {
	Number    int    `json:"appointment_number"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
	Doctor    string `json:"doctor"`
}

// BookingResult reports the outcome of a successful commit.
type BookingResult struct {
	Number    int  `json:"appointment_number"`
	EmailSent bool `json:"email_sent"`
}
