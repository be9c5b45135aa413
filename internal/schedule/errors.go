package schedule

import "errors"

var (
	// ErrOfferingNotFound is returned when no class offering matches the id.
	ErrOfferingNotFound = errors.New("schedule: offering not found")
)
