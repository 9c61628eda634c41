package calendar

import "errors"

// Domain errors for the calendar package.
var (
	// ErrNotFound is returned when no event matches the given title.
	ErrNotFound = errors.New("calendar: event not found")

	// ErrInvalidTitle is returned when an event title is empty.
	ErrInvalidTitle = errors.New("calendar: invalid title")

	// ErrInvalidTimeRange is returned when an event does not end after
	// it starts.
	ErrInvalidTimeRange = errors.New("calendar: end must be after start")
)
