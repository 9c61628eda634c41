package device

import (
	"context"
	"fmt"
	"time"
)

// CatalogValidator checks a device against an external model catalog when
// it is first connected. Catalog contents are outside this system; the
// interface is all the core depends on.
type CatalogValidator interface {
	Validate(ctx context.Context, deviceType Type, model string) error
}

// AcceptAll is a CatalogValidator that accepts every device.
// Used when no external catalog is wired in.
type AcceptAll struct{}

// Validate always returns nil.
func (AcceptAll) Validate(context.Context, Type, string) error { return nil }

// New constructs a validated, switched-off Device.
func New(key Key, powerRatingWatts float64, now time.Time) (*Device, error) {
	d := &Device{
		Key:              key,
		PowerRatingWatts: powerRatingWatts,
		ConnectedAt:      now,
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks device fields and the timer invariant.
// Returns an error describing the first failure found.
func Validate(d *Device) error {
	if d == nil {
		return ErrNotFound
	}
	if d.Type == "" {
		return ErrInvalidType
	}
	if d.Room == "" {
		return ErrInvalidRoom
	}
	if d.PowerRatingWatts < 0 {
		return fmt.Errorf("%w: %.1f", ErrInvalidPower, d.PowerRatingWatts)
	}
	wantEnabled := d.ScheduledOnAt != nil || d.ScheduledOffAt != nil
	if d.TimerEnabled != wantEnabled {
		return fmt.Errorf("device: timer flag out of sync for %s", d.Key)
	}
	return nil
}
