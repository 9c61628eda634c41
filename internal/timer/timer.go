package timer

import (
	"time"

	"github.com/mvickery/hearth-core/internal/device"
)

// Default windows. The scheduler passes configured values; these are the
// reference defaults used when a zero value slips through.
const (
	// DefaultGraceWindow is how long after its scheduled time a timer may
	// still fire. Beyond it the slot silently expires, which bounds the
	// effect of a scheduler outage.
	DefaultGraceWindow = 10 * time.Minute

	// DefaultMinLead is the minimum gap between "now" and a newly
	// scheduled timer.
	DefaultMinLead = 1 * time.Minute
)

// Outcome describes what happened to a due timer slot.
type Outcome string

// Outcome constants.
const (
	// OutcomeFired means the slot was due within the grace window and the
	// device transitioned.
	OutcomeFired Outcome = "fired"

	// OutcomeExpired means the slot was due but past the grace window;
	// the slot was cleared without touching device state.
	OutcomeExpired Outcome = "expired"
)

// Firing records the evaluation result for one timer slot.
type Firing struct {
	Device      device.Key    `json:"device"`
	Action      device.Action `json:"action"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Outcome     Outcome       `json:"outcome"`

	// Changed is true when the device state actually transitioned.
	// A fired ON timer on an already-on device fires without a change.
	Changed bool `json:"changed"`
}

// View is a read model of one pending timer slot.
type View struct {
	Device      device.Key    `json:"device"`
	Action      device.Action `json:"action"`
	ScheduledAt time.Time     `json:"scheduled_at"`
}

// Schedule sets the slot matching the action on the device.
//
// The target time must be at least minLead after now, otherwise
// ErrInvalidTime is returned and nothing changes. A pending time in the
// same slot is overwritten silently.
func Schedule(d *device.Device, action device.Action, at, now time.Time, minLead time.Duration) error {
	if minLead <= 0 {
		minLead = DefaultMinLead
	}
	if at.Before(now.Add(minLead)) {
		return ErrInvalidTime
	}
	d.SetTimer(action, at)
	return nil
}

// Cancel clears the slot matching the action. Cancelling an empty slot is
// a no-op; the timer flag is recomputed either way.
func Cancel(d *device.Device, action device.Action) {
	d.ClearTimer(action)
}

// Evaluate fires or expires the device's due timer slots.
//
// A slot is due when now >= its scheduled time. A due slot fires while
// now - scheduledTime <= grace, and expires beyond that. Both outcomes
// clear the slot and recompute the timer flag; only firing transitions
// device state. The ON slot is evaluated before the OFF slot so a device
// with both due transitions in schedule order.
func Evaluate(d *device.Device, now time.Time, grace time.Duration) []Firing {
	if grace <= 0 {
		grace = DefaultGraceWindow
	}

	var firings []Firing
	for _, action := range []device.Action{device.ActionOn, device.ActionOff} {
		at := d.TimerAt(action)
		if at == nil || now.Before(*at) {
			continue
		}

		f := Firing{
			Device:      d.Key,
			Action:      action,
			ScheduledAt: *at,
		}
		if now.Sub(*at) <= grace {
			f.Outcome = OutcomeFired
			f.Changed = d.Apply(action, now)
		} else {
			f.Outcome = OutcomeExpired
		}
		d.ClearTimer(action)
		firings = append(firings, f)
	}
	return firings
}

// Pending returns views of the device's pending timer slots, ON before OFF.
func Pending(d *device.Device) []View {
	var views []View
	for _, action := range []device.Action{device.ActionOn, device.ActionOff} {
		if at := d.TimerAt(action); at != nil {
			views = append(views, View{
				Device:      d.Key,
				Action:      action,
				ScheduledAt: *at,
			})
		}
	}
	return views
}
