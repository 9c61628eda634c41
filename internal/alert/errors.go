package alert

import "errors"

// Domain errors for the alert package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, alert.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when no alert matches the given id.
	ErrNotFound = errors.New("alert: not found")

	// ErrInvalidComparator is returned when a comparator string is not
	// one of gt, lt, eq.
	ErrInvalidComparator = errors.New("alert: invalid comparator")

	// ErrInvalidName is returned when an alert name is empty.
	ErrInvalidName = errors.New("alert: invalid name")
)
