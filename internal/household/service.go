package household

import (
	"context"
	"time"

	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/events"
	"github.com/mvickery/hearth-core/internal/owner"
	"github.com/mvickery/hearth-core/internal/timer"
)

// EnergyWriter receives energy telemetry when ON sessions fold.
// Satisfied by the InfluxDB client; nil disables telemetry.
type EnergyWriter interface {
	WriteEnergyFold(ownerID, deviceKey string, sessionKWh, cumulativeKWh float64, at time.Time)
	WriteAlertTrigger(ownerID, deviceKey, alertName string, valueKWh float64, at time.Time)
}

// Service is the synchronous command surface of the automation core.
//
// Every mutating call runs read-modify-persist under the owner's lock
// via the registry, so user commands never interleave with scheduler
// ticks inside one record.
type Service struct {
	registry *owner.Registry
	recorder *events.Recorder
	metrics  EnergyWriter

	minLead time.Duration

	// now is the clock source, swapped in tests.
	now func() time.Time
}

// NewService creates the service facade.
// recorder may be nil to disable trigger records; metrics may be nil to
// disable energy telemetry.
func NewService(registry *owner.Registry, recorder *events.Recorder, metrics EnergyWriter, minLead time.Duration) *Service {
	if minLead <= 0 {
		minLead = timer.DefaultMinLead
	}
	return &Service{
		registry: registry,
		recorder: recorder,
		metrics:  metrics,
		minLead:  minLead,
		now:      time.Now,
	}
}

// Registry exposes the owner registry for the scheduler and API wiring.
func (s *Service) Registry() *owner.Registry { return s.registry }

// emit distributes a trigger record when a recorder is wired.
func (s *Service) emit(rec events.Record) {
	if s.recorder != nil {
		s.recorder.Emit(rec)
	}
}

// CreateOwner registers a new owner record.
func (s *Service) CreateOwner(ctx context.Context, name string) (*owner.Record, error) {
	return s.registry.Create(ctx, name, s.now().UTC())
}

// GetOwner returns an isolated copy of the owner's record.
func (s *Service) GetOwner(ctx context.Context, ownerID string) (*owner.Record, error) {
	return s.registry.Get(ctx, ownerID)
}

// ListOwners returns isolated copies of all owner records.
func (s *Service) ListOwners(ctx context.Context) ([]*owner.Record, error) {
	return s.registry.List(ctx)
}

// DeleteOwner removes an owner and everything it aggregates.
func (s *Service) DeleteOwner(ctx context.Context, ownerID string) error {
	return s.registry.Delete(ctx, ownerID)
}

// ConnectDevice attaches a new device to the owner's household.
func (s *Service) ConnectDevice(ctx context.Context, ownerID, deviceType, room string, watts float64) (*device.Device, error) {
	var connected *device.Device
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		d, err := device.New(device.NewKey(deviceType, room), watts, s.now().UTC())
		if err != nil {
			return false, err
		}
		if err := rec.AddDevice(d); err != nil {
			return false, err
		}
		connected = d.DeepCopy()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return connected, nil
}

// DisconnectDevice detaches the device, folding its open ON session so
// the consumption total survives.
func (s *Service) DisconnectDevice(ctx context.Context, ownerID, deviceType, room string) (*device.Device, error) {
	key := device.NewKey(deviceType, room)
	now := s.now().UTC()

	var removed *device.Device
	var sessionKWh float64
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		d := rec.Device(key)
		if d == nil {
			return false, device.ErrNotFound
		}
		sessionKWh = d.CurrentEnergyKWh(now) - d.CumulativeEnergyKWh

		r, err := rec.RemoveDevice(key, now)
		if err != nil {
			return false, err
		}
		removed = r.DeepCopy()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil && sessionKWh > 0 {
		s.metrics.WriteEnergyFold(ownerID, key.String(), sessionKWh, removed.CumulativeEnergyKWh, now)
	}
	return removed, nil
}

// ToggleDevice applies an ON/OFF action to the device.
//
// The returned bool reports whether state actually changed; applying the
// current state again is a no-op, not an error.
func (s *Service) ToggleDevice(ctx context.Context, ownerID, deviceType, room, action string) (*device.Device, bool, error) {
	act, err := device.ParseAction(action)
	if err != nil {
		return nil, false, err
	}
	key := device.NewKey(deviceType, room)
	now := s.now().UTC()

	var after *device.Device
	var changed bool
	var sessionKWh float64
	err = s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		d := rec.Device(key)
		if d == nil {
			return false, device.ErrNotFound
		}
		if act == device.ActionOff && d.IsOn {
			sessionKWh = d.CurrentEnergyKWh(now) - d.CumulativeEnergyKWh
		}
		changed = d.Apply(act, now)
		after = d.DeepCopy()
		return changed, nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		if act == device.ActionOff && s.metrics != nil && sessionKWh > 0 {
			s.metrics.WriteEnergyFold(ownerID, key.String(), sessionKWh, after.CumulativeEnergyKWh, now)
		}
		s.emit(events.Record{
			OwnerID: ownerID,
			Kind:    events.KindDeviceToggled,
			Device:  key.String(),
			Action:  string(act),
			Message: "device turned " + string(act),
			At:      now,
		})
	}
	return after, changed, nil
}

// ListDevices returns isolated copies of the owner's devices.
func (s *Service) ListDevices(ctx context.Context, ownerID string) ([]*device.Device, error) {
	rec, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return rec.Devices, nil
}

// ScheduleTimer sets a future ON or OFF transition on the device.
// A pending time in the same slot is overwritten silently.
func (s *Service) ScheduleTimer(ctx context.Context, ownerID, deviceType, room, action string, at time.Time) error {
	act, err := device.ParseAction(action)
	if err != nil {
		return err
	}
	key := device.NewKey(deviceType, room)

	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		d := rec.Device(key)
		if d == nil {
			return false, device.ErrNotFound
		}
		if err := timer.Schedule(d, act, at, s.now().UTC(), s.minLead); err != nil {
			return false, err
		}
		return true, nil
	})
}

// CancelTimer clears the device's pending slot for the action.
func (s *Service) CancelTimer(ctx context.Context, ownerID, deviceType, room, action string) error {
	act, err := device.ParseAction(action)
	if err != nil {
		return err
	}
	key := device.NewKey(deviceType, room)

	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		d := rec.Device(key)
		if d == nil {
			return false, device.ErrNotFound
		}
		had := d.TimerAt(act) != nil
		timer.Cancel(d, act)
		return had, nil
	})
}

// PendingTimers returns the owner's pending timer slots across all
// devices, in device connection order.
func (s *Service) PendingTimers(ctx context.Context, ownerID string) ([]timer.View, error) {
	rec, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var views []timer.View
	for _, d := range rec.Devices {
		views = append(views, timer.Pending(d)...)
	}
	return views, nil
}
