package bookings

import "errors"

var (
	ErrInvalidName  = errors.New("bookings: name must have at least 2 characters")
	ErrInvalidEmail = errors.New("bookings: invalid email address")
	ErrInvalidPhone = errors.New("bookings: invalid phone number")
	ErrMissingDate  = errors.New("bookings: selected date is required")
	ErrMissingClass = errors.New("bookings: class selection is required")

	// ErrBookingNotFound is returned when no booking matches the id.
	ErrBookingNotFound = errors.New("bookings: booking not found")
)

// IsValidationError reports whether err is a client-fixable input error.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrMissingClass):
		return true
	}
	return false
}
