package household

import (
	"context"
	"strings"
	"time"

	"github.com/mvickery/hearth-core/internal/alert"
	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/owner"
)

// TimeAlertParams describes a new time-based alert.
type TimeAlertParams struct {
	Name       string
	DeviceType string
	Room       string
	TriggerAt  time.Time
	Message    string
	Recurring  bool

	// AutoDelete defaults to true when nil.
	AutoDelete *bool
}

// EnergyAlertParams describes a new energy-threshold alert.
type EnergyAlertParams struct {
	Name         string
	DeviceType   string
	Room         string
	ThresholdKWh float64
	Comparator   string
	Message      string

	// AutoDelete defaults to true when nil.
	AutoDelete *bool
}

// CreateTimeAlert registers a time-based alert against a connected device.
func (s *Service) CreateTimeAlert(ctx context.Context, ownerID string, p TimeAlertParams) (*alert.Alert, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, alert.ErrInvalidName
	}
	key := device.NewKey(p.DeviceType, p.Room)

	var created *alert.Alert
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if rec.Device(key) == nil {
			return false, device.ErrNotFound
		}
		a := alert.NewTimeBased(p.Name, key, p.TriggerAt, p.Message, s.now().UTC())
		a.Recurring = p.Recurring
		if p.AutoDelete != nil {
			a.AutoDelete = *p.AutoDelete
		}
		rec.Alerts = append(rec.Alerts, a)
		created = a.DeepCopy()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateEnergyAlert registers an energy-threshold alert against a
// connected device.
func (s *Service) CreateEnergyAlert(ctx context.Context, ownerID string, p EnergyAlertParams) (*alert.Alert, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, alert.ErrInvalidName
	}
	comp, err := alert.ParseComparator(p.Comparator)
	if err != nil {
		return nil, err
	}
	key := device.NewKey(p.DeviceType, p.Room)

	var created *alert.Alert
	err = s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if rec.Device(key) == nil {
			return false, device.ErrNotFound
		}
		a := alert.NewEnergyBased(p.Name, key, p.ThresholdKWh, comp, p.Message, s.now().UTC())
		if p.AutoDelete != nil {
			a.AutoDelete = *p.AutoDelete
		}
		rec.Alerts = append(rec.Alerts, a)
		created = a.DeepCopy()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListAlerts returns isolated copies of the owner's alerts.
func (s *Service) ListAlerts(ctx context.Context, ownerID string) ([]alert.Alert, error) {
	rec, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return rec.Alerts, nil
}

// ToggleAlert flips the active flag of the identified alert.
func (s *Service) ToggleAlert(ctx context.Context, ownerID, alertID string) error {
	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if err := alert.Toggle(rec.Alerts, alertID); err != nil {
			return false, err
		}
		return true, nil
	})
}

// DeleteAlert removes the identified alert.
func (s *Service) DeleteAlert(ctx context.Context, ownerID, alertID string) error {
	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if err := alert.Delete(&rec.Alerts, alertID); err != nil {
			return false, err
		}
		return true, nil
	})
}
