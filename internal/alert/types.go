package alert

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvickery/hearth-core/internal/device"
)

// Kind discriminates the alert variants. A closed, tagged set instead of
// subtype polymorphism.
type Kind string

// Kind constants.
const (
	KindTime   Kind = "time"
	KindEnergy Kind = "energy"
)

// Comparator relates measured consumption to an energy alert's threshold.
type Comparator string

// Comparator constants.
const (
	CompGT Comparator = "gt"
	CompLT Comparator = "lt"
	CompEQ Comparator = "eq"
)

// eqEpsilonKWh is the tolerance used by the EQ comparator. Cumulative
// consumption is a derived float; exact equality would never match.
const eqEpsilonKWh = 0.01

// ParseComparator converts a string to a Comparator.
// Matching is case-insensitive. Returns ErrInvalidComparator otherwise.
func ParseComparator(s string) (Comparator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gt", ">":
		return CompGT, nil
	case "lt", "<":
		return CompLT, nil
	case "eq", "=", "==":
		return CompEQ, nil
	default:
		return "", ErrInvalidComparator
	}
}

// Matches reports whether value satisfies the comparator against threshold.
func (c Comparator) Matches(value, threshold float64) bool {
	switch c {
	case CompGT:
		return value > threshold
	case CompLT:
		return value < threshold
	case CompEQ:
		return math.Abs(value-threshold) <= eqEpsilonKWh
	default:
		return false
	}
}

// Alert is one owner-scoped alert definition.
//
// The variant-specific fields are populated according to Kind: TriggerAt
// for time alerts, ThresholdKWh and Comp for energy alerts.
type Alert struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Kind   Kind       `json:"kind"`
	Device device.Key `json:"device"`

	// Time variant: absolute trigger time.
	TriggerAt *time.Time `json:"trigger_at,omitempty"`

	// Energy variant: threshold and comparator.
	ThresholdKWh float64    `json:"threshold_kwh,omitempty"`
	Comp         Comparator `json:"comparator,omitempty"`

	Message string `json:"message"`

	Active bool `json:"active"`

	// Recurring keeps a time alert eligible after firing, provided the
	// caller re-arms TriggerAt. Not creatable through the API today but
	// representable, so a re-armed alert round-trips through persistence.
	Recurring bool `json:"recurring,omitempty"`

	// AutoDelete removes the alert from the owner's list after its first
	// trigger. Defaults to true at creation.
	AutoDelete bool `json:"auto_delete"`

	TriggerCount    int        `json:"trigger_count"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewTimeBased creates an active time-based alert with a fresh id.
func NewTimeBased(name string, target device.Key, triggerAt time.Time, message string, now time.Time) Alert {
	at := triggerAt
	return Alert{
		ID:         uuid.NewString(),
		Name:       name,
		Kind:       KindTime,
		Device:     target,
		TriggerAt:  &at,
		Message:    message,
		Active:     true,
		AutoDelete: true,
		CreatedAt:  now,
	}
}

// NewEnergyBased creates an active energy-threshold alert with a fresh id.
func NewEnergyBased(name string, target device.Key, thresholdKWh float64, comp Comparator, message string, now time.Time) Alert {
	return Alert{
		ID:           uuid.NewString(),
		Name:         name,
		Kind:         KindEnergy,
		Device:       target,
		ThresholdKWh: thresholdKWh,
		Comp:         comp,
		Message:      message,
		Active:       true,
		AutoDelete:   true,
		CreatedAt:    now,
	}
}

// DeepCopy creates an independent copy of the Alert.
func (a *Alert) DeepCopy() *Alert {
	cpy := *a
	if a.TriggerAt != nil {
		t := *a.TriggerAt
		cpy.TriggerAt = &t
	}
	if a.LastTriggeredAt != nil {
		t := *a.LastTriggeredAt
		cpy.LastTriggeredAt = &t
	}
	return &cpy
}

// Trigger is the record emitted when an alert fires.
type Trigger struct {
	AlertID  string     `json:"alert_id"`
	Name     string     `json:"name"`
	Kind     Kind       `json:"kind"`
	Device   device.Key `json:"device"`
	Message  string     `json:"message"`
	At       time.Time  `json:"at"`
	ValueKWh float64    `json:"value_kwh,omitempty"` // Energy alerts: measured value
	Deleted  bool       `json:"deleted"`             // True when auto-delete removed the alert
}

// Describe renders the trigger as a human-readable execution record.
func (t Trigger) Describe() string {
	switch t.Kind {
	case KindEnergy:
		return fmt.Sprintf("energy alert %q on %s: %.2f kWh (%s)", t.Name, t.Device, t.ValueKWh, t.Message)
	default:
		return fmt.Sprintf("time alert %q on %s: %s", t.Name, t.Device, t.Message)
	}
}
