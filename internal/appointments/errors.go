package appointments

import "errors"

var (
	// ErrNameFormat is returned when a name contains anything but letters and spaces
	ErrNameFormat = errors.New("name fields may only contain letters")

	// ErrMissingName is returned when first or last name is blank
	ErrMissingName = errors.New("both first and last name are required")

	// ErrMissingEmail is returned when the email field is blank
	ErrMissingEmail = errors.New("email is required")

	// ErrMissingPhone is returned when the phone field is blank
	ErrMissingPhone = errors.New("phone number is required")

	// ErrInvalidEmail is returned when the address is malformed or its domain has no MX record
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhone is returned when the phone is not exactly 11 digits
	ErrInvalidPhone = errors.New("phone number must be exactly 11 digits")

	// ErrNoDoctor is returned when no doctor from the catalog was chosen
	ErrNoDoctor = errors.New("a doctor must be chosen")

	// ErrInvalidDate is returned for malformed or past dates
	ErrInvalidDate = errors.New("date must be today or later")

	// ErrEmailTaken is returned when another appointment holds the email
	ErrEmailTaken = errors.New("an appointment with this email already exists")

	// ErrPhoneTaken is returned when another appointment holds the phone number
	ErrPhoneTaken = errors.New("an appointment with this phone number already exists")

	// ErrSlotTaken is returned when the doctor already has a booking in the slot
	ErrSlotTaken = errors.New("this time slot is already booked")

	// ErrPastDateTime is returned when the combined date and time are not in the future
	ErrPastDateTime = errors.New("the chosen date and time are not available")

	// ErrNotFound is returned when no appointment matches the number and email
	ErrNotFound = errors.New("appointment not found")

	// ErrNotificationFailed is returned by the form flow when the confirmation
	// email could not be delivered; the form flow does not persist in that case
	ErrNotificationFailed = errors.New("failed to send confirmation email")
)
