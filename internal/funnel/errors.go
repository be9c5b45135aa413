package funnel

import "errors"

var (
	ErrSessionNotFound   = errors.New("funnel: session not found")
	ErrInvalidTransition = errors.New("funnel: transition not allowed from current step")
	ErrDateRequired      = errors.New("funnel: a date must be selected before continuing")
	ErrDateNotAvailable  = errors.New("funnel: selected date is not an available candidate")
	ErrNotTrialEligible  = errors.New("funnel: class is not eligible for trial bookings")
)
