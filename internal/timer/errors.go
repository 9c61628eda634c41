package timer

import "errors"

// Domain errors for the timer package.
var (
	// ErrInvalidTime is returned when a timer is scheduled less than the
	// minimum lead ahead of the current time.
	ErrInvalidTime = errors.New("timer: scheduled time too soon")
)
