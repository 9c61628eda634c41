package scene

import "errors"

// Domain errors for the scene package.
var (
	// ErrNotFound is returned when neither an override nor a built-in
	// matches the given name.
	ErrNotFound = errors.New("scene: not found")

	// ErrNotBuiltIn is returned when a reset targets a name outside the
	// built-in catalog.
	ErrNotBuiltIn = errors.New("scene: not a built-in scene")

	// ErrDuplicateDevice is returned when adding an action for a device
	// the scene already addresses.
	ErrDuplicateDevice = errors.New("scene: device already in scene")

	// ErrActionNotFound is returned when an edit targets a device the
	// scene does not address.
	ErrActionNotFound = errors.New("scene: device not in scene")

	// ErrInvalidName is returned when a scene name is empty.
	ErrInvalidName = errors.New("scene: invalid name")
)
