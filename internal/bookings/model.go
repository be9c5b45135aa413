package bookings

import (
	"regexp"
	"strings"
	"time"

	"github.com/aukawellness/studio-api/internal/attribution"
)

// Booking is a confirmed trial-class reservation.
type Booking struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	ClassTitle   string    `json:"class_title"`
	DayKey       string    `json:"day_key"`
	TimeOfDay    string    `json:"time_of_day"`
	SelectedDate string    `json:"selected_date"`
	UTMSource    string    `json:"utm_source,omitempty"`
	UTMMedium    string    `json:"utm_medium,omitempty"`
	UTMCampaign  string    `json:"utm_campaign,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitRequest is the booking submission payload. PageURL is the URL the
// visitor submitted from; UTM parameters are read from it at submission time
// so attribution is last-touch.
type SubmitRequest struct {
	Name         string `json:"customer_name"`
	Email        string `json:"customer_email"`
	Phone        string `json:"customer_phone"`
	ClassTitle   string `json:"class_title"`
	DayKey       string `json:"day_key"`
	TimeOfDay    string `json:"time"`
	SelectedDate string `json:"selected_date"`
	PageURL      string `json:"page_url,omitempty"`

	UTM attribution.UTMParams `json:"-"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]{8,20}$`)
)

// Validate checks contact fields before any storage or network work.
func (r *SubmitRequest) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 2 {
		return ErrInvalidName
	}
	if !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		return ErrInvalidEmail
	}
	digits := 0
	for _, c := range r.Phone {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	if !phonePattern.MatchString(strings.TrimSpace(r.Phone)) || digits < 8 || digits > 15 {
		return ErrInvalidPhone
	}
	if strings.TrimSpace(r.SelectedDate) == "" {
		return ErrMissingDate
	}
	if strings.TrimSpace(r.ClassTitle) == "" || strings.TrimSpace(r.DayKey) == "" {
		return ErrMissingClass
	}
	return nil
}

// NormalizedEmail is the identity key for the already-attended guard.
func (r *SubmitRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// Outcome is the tagged result of a submission, consumed once by the funnel
// to drive its state transition.
type OutcomeKind string

const (
	OutcomeConfirmed       OutcomeKind = "confirmed"
	OutcomeAlreadyAttended OutcomeKind = "already_attended"
	OutcomeError           OutcomeKind = "error"
)

// Outcome carries the submission result plus a user-displayable message for
// the error case.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Booking *Booking    `json:"booking,omitempty"`
	Message string      `json:"message,omitempty"`
}
