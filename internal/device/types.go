package device

import (
	"strings"
	"time"
)

// wattsPerKilowatt converts a power rating in watts to kilowatts.
const wattsPerKilowatt = 1000.0

// Action is a device state transition. It replaces subtype polymorphism
// with a closed, tagged set of values.
type Action string

// Action constants.
const (
	ActionOn  Action = "on"
	ActionOff Action = "off"
)

// ParseAction converts a string to an Action.
// Matching is case-insensitive. Returns ErrInvalidAction for anything else.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return ActionOn, nil
	case "off":
		return ActionOff, nil
	default:
		return "", ErrInvalidAction
	}
}

// Type represents the kind of household device.
type Type string

// Device type constants.
const (
	TypeLight          Type = "light"
	TypeFan            Type = "fan"
	TypeAC             Type = "ac"
	TypeTV             Type = "tv"
	TypeSpeaker        Type = "speaker"
	TypeHeater         Type = "heater"
	TypeGeyser         Type = "geyser"
	TypeRefrigerator   Type = "refrigerator"
	TypeAirPurifier    Type = "air_purifier"
	TypeWashingMachine Type = "washing_machine"
)

// AllTypes returns all known device type values.
func AllTypes() []Type {
	return []Type{
		TypeLight, TypeFan, TypeAC, TypeTV, TypeSpeaker,
		TypeHeater, TypeGeyser, TypeRefrigerator, TypeAirPurifier,
		TypeWashingMachine,
	}
}

// Key identifies a device within one owner's household.
// The (type, room) pair is unique per owner.
type Key struct {
	Type Type   `json:"type"`
	Room string `json:"room"`
}

// NewKey builds a normalised Key: type lower-cased, room trimmed and
// lower-cased so "Bedroom" and "bedroom" address the same device.
func NewKey(deviceType, room string) Key {
	return Key{
		Type: Type(strings.ToLower(strings.TrimSpace(deviceType))),
		Room: strings.ToLower(strings.TrimSpace(room)),
	}
}

// String renders the key as "type/room" for logs and trigger records.
func (k Key) String() string {
	return string(k.Type) + "/" + k.Room
}

// Device represents one networked household device and its automation state.
//
// Energy accounting: while a device is on, the open session's consumption
// is derived from PowerRatingWatts and LastOnAt rather than accumulated
// incrementally. It is folded into CumulativeEnergyKWh exactly once, at the
// OFF transition (or when the device is disconnected).
type Device struct {
	Key

	IsOn             bool    `json:"is_on"`
	PowerRatingWatts float64 `json:"power_rating_watts"`

	// CumulativeEnergyKWh is the energy consumed by closed ON sessions.
	CumulativeEnergyKWh float64 `json:"cumulative_energy_kwh"`

	// LastOnAt is the start of the open ON session. Nil while off.
	LastOnAt *time.Time `json:"last_on_at,omitempty"`

	// Timer slots. One pending ON time and one pending OFF time may exist
	// simultaneously; scheduling again overwrites the matching slot.
	ScheduledOnAt  *time.Time `json:"scheduled_on_at,omitempty"`
	ScheduledOffAt *time.Time `json:"scheduled_off_at,omitempty"`

	// TimerEnabled is true exactly when at least one slot is pending.
	TimerEnabled bool `json:"timer_enabled"`

	ConnectedAt time.Time `json:"connected_at"`
}

// Apply transitions the device to the target action's state.
//
// Returns true if the state actually changed. Applying ActionOn to a device
// that is already on (or ActionOff to one that is off) is a no-op, which is
// what makes scene re-runs and repeated timer evaluation idempotent.
func (d *Device) Apply(action Action, now time.Time) bool {
	switch action {
	case ActionOn:
		if d.IsOn {
			return false
		}
		d.IsOn = true
		t := now
		d.LastOnAt = &t
		return true
	case ActionOff:
		if !d.IsOn {
			return false
		}
		d.foldOpenSession(now)
		d.IsOn = false
		d.LastOnAt = nil
		return true
	default:
		return false
	}
}

// CurrentEnergyKWh returns total consumption as of now: folded sessions
// plus the open session, if any. It does not mutate the device.
func (d *Device) CurrentEnergyKWh(now time.Time) float64 {
	return d.CumulativeEnergyKWh + d.openSessionKWh(now)
}

// FoldEnergy folds the open ON session into CumulativeEnergyKWh and
// restarts the session clock at now. Call before disconnecting a device
// that is still on, so its consumption is not lost.
func (d *Device) FoldEnergy(now time.Time) {
	if !d.IsOn {
		return
	}
	d.foldOpenSession(now)
	t := now
	d.LastOnAt = &t
}

// openSessionKWh computes the open session's consumption:
// power/1000 * hours since LastOnAt. Zero while off.
func (d *Device) openSessionKWh(now time.Time) float64 {
	if !d.IsOn || d.LastOnAt == nil {
		return 0
	}
	hours := now.Sub(*d.LastOnAt).Hours()
	if hours <= 0 {
		return 0
	}
	return d.PowerRatingWatts / wattsPerKilowatt * hours
}

// foldOpenSession adds the open session into the cumulative total.
// Callers must reset or clear LastOnAt afterwards to avoid double-counting.
func (d *Device) foldOpenSession(now time.Time) {
	d.CumulativeEnergyKWh += d.openSessionKWh(now)
}

// SetTimer sets the slot matching the action, overwriting any prior time.
func (d *Device) SetTimer(action Action, at time.Time) {
	t := at
	switch action {
	case ActionOn:
		d.ScheduledOnAt = &t
	case ActionOff:
		d.ScheduledOffAt = &t
	}
	d.recomputeTimerEnabled()
}

// ClearTimer clears the slot matching the action.
func (d *Device) ClearTimer(action Action) {
	switch action {
	case ActionOn:
		d.ScheduledOnAt = nil
	case ActionOff:
		d.ScheduledOffAt = nil
	}
	d.recomputeTimerEnabled()
}

// TimerAt returns the pending time for the action's slot, or nil.
func (d *Device) TimerAt(action Action) *time.Time {
	switch action {
	case ActionOn:
		return d.ScheduledOnAt
	case ActionOff:
		return d.ScheduledOffAt
	default:
		return nil
	}
}

// recomputeTimerEnabled maintains the invariant that TimerEnabled is true
// exactly when at least one slot is pending.
func (d *Device) recomputeTimerEnabled() {
	d.TimerEnabled = d.ScheduledOnAt != nil || d.ScheduledOffAt != nil
}

// DeepCopy creates a complete independent copy of the Device.
// Time pointer fields are cloned so modifications to the copy do not
// affect the original. This is essential for cache isolation.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}
	cpy := *d
	cpy.LastOnAt = cloneTimePtr(d.LastOnAt)
	cpy.ScheduledOnAt = cloneTimePtr(d.ScheduledOnAt)
	cpy.ScheduledOffAt = cloneTimePtr(d.ScheduledOffAt)
	return &cpy
}

// cloneTimePtr creates an independent copy of a *time.Time.
func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
