package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when no device matches the given key.
	ErrNotFound = errors.New("device: not found")

	// ErrExists is returned when connecting a device whose (type, room)
	// key is already registered for the owner.
	ErrExists = errors.New("device: already exists")

	// ErrInvalidAction is returned when an action string is neither
	// "on" nor "off".
	ErrInvalidAction = errors.New("device: invalid action")

	// ErrInvalidType is returned when a device type is empty.
	ErrInvalidType = errors.New("device: invalid type")

	// ErrInvalidRoom is returned when a room name is empty.
	ErrInvalidRoom = errors.New("device: invalid room")

	// ErrInvalidPower is returned when a power rating is negative.
	ErrInvalidPower = errors.New("device: invalid power rating")
)
