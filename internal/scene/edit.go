package scene

import "github.com/mvickery/hearth-core/internal/device"

// editable returns the owner's working copy of the named scene: the
// existing override when present, otherwise a copy of the built-in.
// The built-in catalog itself is never mutated.
func editable(overrides map[string]Scene, name string) (*Scene, bool) {
	key := NormalizeName(name)
	if s, ok := overrides[key]; ok {
		return s.DeepCopy(), true
	}
	if s, ok := builtins[key]; ok {
		return s.DeepCopy(), true
	}
	return nil, false
}

// AddAction appends an action to the owner's version of the scene,
// creating a custom scene when the name is new. Each device key may
// appear at most once per scene version.
func AddAction(overrides map[string]Scene, name string, action Action) error {
	key := NormalizeName(name)
	if key == "" {
		return ErrInvalidName
	}

	s, ok := editable(overrides, key)
	if !ok {
		s = &Scene{Name: key}
	}
	for _, existing := range s.Actions {
		if existing.Device == action.Device {
			return ErrDuplicateDevice
		}
	}

	s.Actions = append(s.Actions, action)
	overrides[key] = *s
	return nil
}

// RemoveAction drops the action targeting the given device from the
// owner's version of the scene.
func RemoveAction(overrides map[string]Scene, name string, target device.Key) error {
	s, ok := editable(overrides, name)
	if !ok {
		return ErrNotFound
	}

	for i, a := range s.Actions {
		if a.Device == target {
			s.Actions = append(s.Actions[:i], s.Actions[i+1:]...)
			overrides[NormalizeName(name)] = *s
			return nil
		}
	}
	return ErrActionNotFound
}

// ChangeAction replaces the target state (and description, when given)
// of the action addressing the given device.
func ChangeAction(overrides map[string]Scene, name string, target device.Key, action device.Action, description string) error {
	s, ok := editable(overrides, name)
	if !ok {
		return ErrNotFound
	}

	for i := range s.Actions {
		if s.Actions[i].Device == target {
			s.Actions[i].Action = action
			if description != "" {
				s.Actions[i].Description = description
			}
			overrides[NormalizeName(name)] = *s
			return nil
		}
	}
	return ErrActionNotFound
}

// ResetToBuiltIn discards the owner's override so the factory version
// applies again. Valid only for names in the built-in catalog.
func ResetToBuiltIn(overrides map[string]Scene, name string) error {
	key := NormalizeName(name)
	if !IsBuiltIn(key) {
		return ErrNotBuiltIn
	}
	delete(overrides, key)
	return nil
}
