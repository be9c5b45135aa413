package funnel

import (
	"time"
)

// Step is the funnel position. Success and blocked are terminal: the only
// way out is leaving the page.
type Step string

const (
	StepCalendar Step = "calendar"
	StepDetail   Step = "detail"
	StepForm     Step = "form"
	StepSuccess  Step = "success"
	StepBlocked  Step = "blocked"
)

// Terminal reports whether no further transition is allowed.
func (s Step) Terminal() bool {
	return s == StepSuccess || s == StepBlocked
}

// Selection is the class/date choice owned by the funnel. Picking a new
// class always clears the previously chosen date.
type Selection struct {
	OfferingID   string `json:"offering_id"`
	ClassTitle   string `json:"class_title"`
	DayKey       string `json:"day_key"`
	TimeOfDay    string `json:"time_of_day"`
	SelectedDate string `json:"selected_date,omitempty"`
}

// Session is one visitor's pass through the trial funnel. It lives in the
// session store for the duration of the visit and is discarded on
// completion.
type Session struct {
	ID        string    `json:"id"`
	Step      Step      `json:"step"`
	Selection Selection `json:"selection"`

	// InitiateEventID is set the first time the visitor continues to the
	// form, so the initiate-checkout event fires exactly once per session
	// and retries reuse the same deduplication id.
	InitiateEventID string `json:"initiate_event_id,omitempty"`

	// LastError is the retryable message shown on the form after a failed
	// submission. Cleared on the next transition.
	LastError string `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SelectClass records the class choice and moves to the detail step. Allowed
// from calendar and from detail (picking a different class); any previously
// chosen date is cleared.
func (s *Session) SelectClass(sel Selection) error {
	if s.Step.Terminal() || s.Step == StepForm {
		return ErrInvalidTransition
	}
	sel.SelectedDate = ""
	s.Selection = sel
	s.LastError = ""
	s.Step = StepDetail
	return nil
}

// SelectDate updates the chosen date in place. Only valid on the detail
// step; the step does not change.
func (s *Session) SelectDate(date string) error {
	if s.Step != StepDetail {
		return ErrInvalidTransition
	}
	s.Selection.SelectedDate = date
	s.LastError = ""
	return nil
}

// Continue moves from detail to the contact form, guarded by a chosen date.
func (s *Session) Continue() error {
	if s.Step != StepDetail {
		return ErrInvalidTransition
	}
	if s.Selection.SelectedDate == "" {
		return ErrDateRequired
	}
	s.LastError = ""
	s.Step = StepForm
	return nil
}

// Back returns from the form to the detail step without losing the
// selection.
func (s *Session) Back() error {
	if s.Step != StepForm {
		return ErrInvalidTransition
	}
	s.LastError = ""
	s.Step = StepDetail
	return nil
}
