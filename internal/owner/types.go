package owner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvickery/hearth-core/internal/alert"
	"github.com/mvickery/hearth-core/internal/calendar"
	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/scene"
)

// Record aggregates everything one owner holds: connected devices, alert
// definitions, calendar events, and scene overrides. The record is the
// unit of persistence and of mutation serialisation; nothing inside it
// is shared between owners.
type Record struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Devices        []*device.Device       `json:"devices"`
	Alerts         []alert.Alert          `json:"alerts"`
	Events         []calendar.Event       `json:"events"`
	SceneOverrides map[string]scene.Scene `json:"scene_overrides,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewRecord creates an empty owner record.
func NewRecord(name string, now time.Time) (*Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return &Record{
		ID:             uuid.NewString(),
		Name:           name,
		SceneOverrides: make(map[string]scene.Scene),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Device returns the owner's device for the given key, or nil.
func (r *Record) Device(key device.Key) *device.Device {
	for _, d := range r.Devices {
		if d.Key == key {
			return d
		}
	}
	return nil
}

// Lookup adapts the record to the device-lookup shape the alert, scene,
// and calendar evaluators consume.
func (r *Record) Lookup() func(device.Key) *device.Device {
	return func(key device.Key) *device.Device {
		return r.Device(key)
	}
}

// AddDevice connects a device to the owner.
// Returns device.ErrExists when the key is already connected.
func (r *Record) AddDevice(d *device.Device) error {
	if r.Device(d.Key) != nil {
		return device.ErrExists
	}
	r.Devices = append(r.Devices, d)
	return nil
}

// RemoveDevice disconnects the keyed device and returns it with its open
// ON session folded at now, so the energy total survives the disconnect.
func (r *Record) RemoveDevice(key device.Key, now time.Time) (*device.Device, error) {
	for i, d := range r.Devices {
		if d.Key == key {
			d.FoldEnergy(now)
			r.Devices = append(r.Devices[:i], r.Devices[i+1:]...)
			return d, nil
		}
	}
	return nil, device.ErrNotFound
}

// DeepCopy creates a fully independent copy of the Record.
func (r *Record) DeepCopy() *Record {
	if r == nil {
		return nil
	}
	cpy := *r

	if r.Devices != nil {
		cpy.Devices = make([]*device.Device, len(r.Devices))
		for i, d := range r.Devices {
			cpy.Devices[i] = d.DeepCopy()
		}
	}
	if r.Alerts != nil {
		cpy.Alerts = make([]alert.Alert, len(r.Alerts))
		for i := range r.Alerts {
			cpy.Alerts[i] = *r.Alerts[i].DeepCopy()
		}
	}
	if r.Events != nil {
		cpy.Events = make([]calendar.Event, len(r.Events))
		for i := range r.Events {
			cpy.Events[i] = *r.Events[i].DeepCopy()
		}
	}
	if r.SceneOverrides != nil {
		cpy.SceneOverrides = make(map[string]scene.Scene, len(r.SceneOverrides))
		for name, s := range r.SceneOverrides {
			cpy.SceneOverrides[name] = *s.DeepCopy()
		}
	}
	return &cpy
}
