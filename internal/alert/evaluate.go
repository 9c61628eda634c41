package alert

import (
	"time"

	"github.com/mvickery/hearth-core/internal/device"
)

// DeviceLookup resolves an alert's target device within the same owner.
// It returns nil when the device does not exist; such alerts are skipped,
// not errored — the owner may reconnect the device later.
type DeviceLookup func(device.Key) *device.Device

// EvaluateTime evaluates the owner's time-based alerts at now.
//
// An active time alert whose target exists triggers once now has reached
// its trigger time, unless it already triggered at or after that time.
// After firing, a non-recurring alert is deactivated; an auto-delete alert
// is removed from the slice. Recurring alerts stay eligible for the next
// cycle once the caller re-arms the trigger time.
//
// The slice is mutated in place. Returned triggers are in list order.
func EvaluateTime(alerts *[]Alert, lookup DeviceLookup, now time.Time) []Trigger {
	var triggers []Trigger
	kept := (*alerts)[:0]

	for i := range *alerts {
		a := (*alerts)[i]
		if !a.dueAtTime(lookup, now) {
			kept = append(kept, a)
			continue
		}

		trig := fire(&a, now)
		if a.Kind == KindTime && !a.Recurring {
			a.Active = false
		}
		triggers = append(triggers, trig)
		if !trig.Deleted {
			kept = append(kept, a)
		}
	}

	*alerts = kept
	return triggers
}

// dueAtTime reports whether a time alert should fire at now.
func (a *Alert) dueAtTime(lookup DeviceLookup, now time.Time) bool {
	if a.Kind != KindTime || !a.Active || a.TriggerAt == nil {
		return false
	}
	if lookup(a.Device) == nil {
		return false
	}
	if now.Before(*a.TriggerAt) {
		return false
	}
	// Already marked triggered past this trigger time: do not re-fire
	// until the trigger time is re-armed.
	if a.LastTriggeredAt != nil && !a.LastTriggeredAt.Before(*a.TriggerAt) {
		return false
	}
	return true
}

// EvaluateEnergy evaluates the owner's energy-threshold alerts at now.
//
// The comparison uses the device's current cumulative consumption,
// including the open ON session, so a device that has been running all
// day trips its threshold without waiting for the OFF fold.
//
// The slice is mutated in place. Returned triggers are in list order.
func EvaluateEnergy(alerts *[]Alert, lookup DeviceLookup, now time.Time) []Trigger {
	var triggers []Trigger
	kept := (*alerts)[:0]

	for i := range *alerts {
		a := (*alerts)[i]
		if a.Kind != KindEnergy || !a.Active {
			kept = append(kept, a)
			continue
		}
		d := lookup(a.Device)
		if d == nil {
			kept = append(kept, a)
			continue
		}

		value := d.CurrentEnergyKWh(now)
		if !a.Comp.Matches(value, a.ThresholdKWh) {
			kept = append(kept, a)
			continue
		}

		trig := fire(&a, now)
		trig.ValueKWh = value
		triggers = append(triggers, trig)
		if !trig.Deleted {
			// Left active deliberately: the owner should deactivate or
			// adjust the condition to avoid a re-fire every tick.
			kept = append(kept, a)
		}
	}

	*alerts = kept
	return triggers
}

// fire applies the trigger effect to the alert and builds its record.
func fire(a *Alert, now time.Time) Trigger {
	a.TriggerCount++
	t := now
	a.LastTriggeredAt = &t

	return Trigger{
		AlertID: a.ID,
		Name:    a.Name,
		Kind:    a.Kind,
		Device:  a.Device,
		Message: a.Message,
		At:      now,
		Deleted: a.AutoDelete,
	}
}

// Toggle flips the active flag of the alert with the given id.
// Returns ErrNotFound when no alert matches; no other alert is touched.
func Toggle(alerts []Alert, id string) error {
	for i := range alerts {
		if alerts[i].ID == id {
			alerts[i].Active = !alerts[i].Active
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the alert with the given id from the slice.
// Returns ErrNotFound when no alert matches.
func Delete(alerts *[]Alert, id string) error {
	for i := range *alerts {
		if (*alerts)[i].ID == id {
			*alerts = append((*alerts)[:i], (*alerts)[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// FindByID returns a pointer to the alert with the given id, or nil.
func FindByID(alerts []Alert, id string) *Alert {
	for i := range alerts {
		if alerts[i].ID == id {
			return &alerts[i]
		}
	}
	return nil
}
