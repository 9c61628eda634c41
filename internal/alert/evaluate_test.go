package alert

import (
	"errors"
	"testing"
	"time"

	"github.com/mvickery/hearth-core/internal/device"
)

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

// testLookup builds a DeviceLookup over a fixed device set.
func testLookup(devices ...*device.Device) DeviceLookup {
	return func(key device.Key) *device.Device {
		for _, d := range devices {
			if d.Key == key {
				return d
			}
		}
		return nil
	}
}

func newDevice(t *testing.T, key device.Key, watts float64) *device.Device {
	t.Helper()
	d, err := device.New(key, watts, testNow.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	return d
}

func TestComparatorMatches(t *testing.T) {
	tests := []struct {
		name      string
		comp      Comparator
		value     float64
		threshold float64
		want      bool
	}{
		{name: "eq exact", comp: CompEQ, value: 10.0, threshold: 10.0, want: true},
		{name: "eq within epsilon", comp: CompEQ, value: 10.0, threshold: 10.009, want: true},
		{name: "eq outside epsilon", comp: CompEQ, value: 10.0, threshold: 10.02, want: false},
		{name: "gt above", comp: CompGT, value: 10.0, threshold: 9.0, want: true},
		{name: "gt equal", comp: CompGT, value: 9.0, threshold: 9.0, want: false},
		{name: "lt above", comp: CompLT, value: 10.0, threshold: 9.0, want: false},
		{name: "lt below", comp: CompLT, value: 8.0, threshold: 9.0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.comp.Matches(tt.value, tt.threshold); got != tt.want {
				t.Errorf("%s.Matches(%v, %v) = %v, want %v", tt.comp, tt.value, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestParseComparator(t *testing.T) {
	tests := []struct {
		input   string
		want    Comparator
		wantErr bool
	}{
		{input: "gt", want: CompGT},
		{input: ">", want: CompGT},
		{input: "LT", want: CompLT},
		{input: "==", want: CompEQ},
		{input: "ge", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseComparator(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseComparator(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseComparator(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvaluateTime_AutoDelete(t *testing.T) {
	key := device.NewKey("geyser", "bathroom")
	d := newDevice(t, key, 2000)
	a := NewTimeBased("morning check", key, testNow.Add(-time.Minute), "geyser still running", testNow.Add(-time.Hour))
	alerts := []Alert{a}

	triggers := EvaluateTime(&alerts, testLookup(d), testNow)

	if len(triggers) != 1 {
		t.Fatalf("EvaluateTime() returned %d triggers, want 1", len(triggers))
	}
	if triggers[0].AlertID != a.ID || !triggers[0].Deleted {
		t.Errorf("trigger = %+v, want auto-deleted record for %s", triggers[0], a.ID)
	}
	if len(alerts) != 0 {
		t.Errorf("alert list has %d entries after auto-delete, want 0", len(alerts))
	}
}

func TestEvaluateTime_TriggerCountAndDeactivation(t *testing.T) {
	key := device.NewKey("light", "porch")
	d := newDevice(t, key, 40)

	a := NewTimeBased("porch light", key, testNow.Add(-time.Minute), "lights on past 14:00", testNow.Add(-time.Hour))
	a.AutoDelete = false
	alerts := []Alert{a}

	triggers := EvaluateTime(&alerts, testLookup(d), testNow)
	if len(triggers) != 1 {
		t.Fatalf("first evaluation returned %d triggers, want 1", len(triggers))
	}
	if len(alerts) != 1 {
		t.Fatalf("alert removed despite auto-delete disabled")
	}
	if alerts[0].TriggerCount != 1 {
		t.Errorf("TriggerCount = %d, want 1", alerts[0].TriggerCount)
	}
	if alerts[0].Active {
		t.Error("non-recurring time alert should be deactivated after firing")
	}

	// Deactivated: the next cycle must not re-fire.
	if again := EvaluateTime(&alerts, testLookup(d), testNow.Add(time.Minute)); len(again) != 0 {
		t.Errorf("second evaluation returned %d triggers, want 0", len(again))
	}
}

func TestEvaluateTime_RecurringRearm(t *testing.T) {
	key := device.NewKey("heater", "study")
	d := newDevice(t, key, 1500)

	a := NewTimeBased("heater check", key, testNow.Add(-time.Minute), "heater on", testNow.Add(-time.Hour))
	a.AutoDelete = false
	a.Recurring = true
	alerts := []Alert{a}

	lookup := testLookup(d)
	if got := EvaluateTime(&alerts, lookup, testNow); len(got) != 1 {
		t.Fatalf("first evaluation returned %d triggers, want 1", len(got))
	}
	if !alerts[0].Active {
		t.Fatal("recurring alert must stay active")
	}

	// Without re-arming, the stale trigger time does not re-fire.
	if got := EvaluateTime(&alerts, lookup, testNow.Add(time.Minute)); len(got) != 0 {
		t.Fatalf("stale trigger time re-fired")
	}

	// Re-arm to a later time: eligible again once due.
	rearm := testNow.Add(2 * time.Minute)
	alerts[0].TriggerAt = &rearm
	if got := EvaluateTime(&alerts, lookup, testNow.Add(3*time.Minute)); len(got) != 1 {
		t.Fatalf("re-armed recurring alert did not fire")
	}
	if alerts[0].TriggerCount != 2 {
		t.Errorf("TriggerCount = %d, want 2", alerts[0].TriggerCount)
	}
}

func TestEvaluateTime_SkipsMissingDeviceAndFuture(t *testing.T) {
	key := device.NewKey("tv", "lounge")
	missing := NewTimeBased("gone", device.NewKey("fan", "attic"), testNow.Add(-time.Hour), "m", testNow.Add(-2*time.Hour))
	future := NewTimeBased("later", key, testNow.Add(time.Hour), "m", testNow.Add(-2*time.Hour))
	alerts := []Alert{missing, future}

	d := newDevice(t, key, 120)
	triggers := EvaluateTime(&alerts, testLookup(d), testNow)

	if len(triggers) != 0 {
		t.Errorf("EvaluateTime() returned %d triggers, want 0", len(triggers))
	}
	if len(alerts) != 2 {
		t.Errorf("alert list shrank to %d entries, want 2 kept", len(alerts))
	}
}

func TestEvaluateEnergy_Comparators(t *testing.T) {
	key := device.NewKey("ac", "bedroom")

	// Device with exactly 10.0 kWh folded and no open session.
	d := newDevice(t, key, 1500)
	d.CumulativeEnergyKWh = 10.0

	tests := []struct {
		name      string
		threshold float64
		comp      Comparator
		wantFire  bool
	}{
		{name: "eq at value", threshold: 10.0, comp: CompEQ, wantFire: true},
		{name: "eq outside epsilon", threshold: 10.02, comp: CompEQ, wantFire: false},
		{name: "gt below value", threshold: 9.0, comp: CompGT, wantFire: true},
		{name: "lt below value", threshold: 9.0, comp: CompLT, wantFire: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewEnergyBased("budget", key, tt.threshold, tt.comp, "over budget", testNow.Add(-time.Hour))
			alerts := []Alert{a}

			triggers := EvaluateEnergy(&alerts, testLookup(d), testNow)
			if (len(triggers) == 1) != tt.wantFire {
				t.Fatalf("fired = %v, want %v", len(triggers) == 1, tt.wantFire)
			}
			if tt.wantFire {
				if triggers[0].ValueKWh != 10.0 {
					t.Errorf("ValueKWh = %v, want 10.0", triggers[0].ValueKWh)
				}
				if len(alerts) != 0 {
					t.Error("default energy alert should auto-delete after firing")
				}
			}
		})
	}
}

func TestEvaluateEnergy_IncludesOpenSession(t *testing.T) {
	key := device.NewKey("heater", "lounge")
	d := newDevice(t, key, 1000) // 1 kW
	d.Apply(device.ActionOn, testNow.Add(-2*time.Hour))

	// 2 hours open session at 1 kW = 2.0 kWh, nothing folded yet.
	a := NewEnergyBased("running hot", key, 1.5, CompGT, "heater over 1.5 kWh", testNow.Add(-3*time.Hour))
	alerts := []Alert{a}

	triggers := EvaluateEnergy(&alerts, testLookup(d), testNow)
	if len(triggers) != 1 {
		t.Fatalf("EvaluateEnergy() returned %d triggers, want 1", len(triggers))
	}
	if triggers[0].ValueKWh < 1.99 || triggers[0].ValueKWh > 2.01 {
		t.Errorf("ValueKWh = %v, want ~2.0 from the open session", triggers[0].ValueKWh)
	}
}

func TestToggleAndDelete(t *testing.T) {
	key := device.NewKey("light", "hall")
	a := NewTimeBased("a", key, testNow.Add(time.Hour), "m", testNow)
	b := NewEnergyBased("b", key, 5, CompGT, "m", testNow)
	alerts := []Alert{a, b}

	if err := Toggle(alerts, a.ID); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if alerts[0].Active {
		t.Error("Toggle() should deactivate an active alert")
	}

	if err := Toggle(alerts, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle(unknown) error = %v, want ErrNotFound", err)
	}

	if err := Delete(&alerts, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != a.ID {
		t.Errorf("Delete() left %+v, want only %s", alerts, a.ID)
	}

	if err := Delete(&alerts, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDeepCopy_Isolation(t *testing.T) {
	key := device.NewKey("heater", "study")
	a := NewTimeBased("bedtime", key, testNow.Add(time.Hour), "off you go", testNow)
	fired := testNow.Add(-time.Hour)
	a.LastTriggeredAt = &fired

	cpy := a.DeepCopy()
	if cpy == &a {
		t.Fatal("DeepCopy() returned the original")
	}

	cpy.Name = "changed"
	*cpy.TriggerAt = testNow.Add(2 * time.Hour)
	*cpy.LastTriggeredAt = testNow

	if a.Name != "bedtime" {
		t.Error("copy shares Name with the original")
	}
	if !a.TriggerAt.Equal(testNow.Add(time.Hour)) {
		t.Error("copy shares TriggerAt pointer with the original")
	}
	if !a.LastTriggeredAt.Equal(fired) {
		t.Error("copy shares LastTriggeredAt pointer with the original")
	}
}
