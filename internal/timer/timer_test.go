package timer

import (
	"errors"
	"testing"
	"time"

	"github.com/mvickery/hearth-core/internal/device"
)

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func newTestDevice(t *testing.T) *device.Device {
	t.Helper()
	d, err := device.New(device.NewKey("light", "bedroom"), 60, testNow)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	return d
}

func TestSchedule_MinimumLead(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "exactly one minute ahead", at: testNow.Add(time.Minute)},
		{name: "well ahead", at: testNow.Add(2 * time.Hour)},
		{name: "too soon", at: testNow.Add(30 * time.Second), wantErr: ErrInvalidTime},
		{name: "now", at: testNow, wantErr: ErrInvalidTime},
		{name: "in the past", at: testNow.Add(-time.Minute), wantErr: ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(t)
			err := Schedule(d, device.ActionOn, tt.at, testNow, DefaultMinLead)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Schedule() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && d.TimerEnabled {
				t.Error("failed schedule must not mutate the device")
			}
		})
	}
}

func TestSchedule_OverwritesSilently(t *testing.T) {
	d := newTestDevice(t)

	first := testNow.Add(10 * time.Minute)
	second := testNow.Add(20 * time.Minute)

	if err := Schedule(d, device.ActionOn, first, testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := Schedule(d, device.ActionOn, second, testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if got := d.TimerAt(device.ActionOn); got == nil || !got.Equal(second) {
		t.Errorf("ScheduledOnAt = %v, want %v", got, second)
	}
}

func TestEvaluate_FiresWithinGrace(t *testing.T) {
	at := testNow.Add(2 * time.Minute)

	tests := []struct {
		name        string
		tickAt      time.Time
		wantOutcome Outcome
		wantOn      bool
		wantFirings int
	}{
		{name: "before due", tickAt: testNow, wantFirings: 0},
		{name: "one second late", tickAt: at.Add(time.Second), wantOutcome: OutcomeFired, wantOn: true, wantFirings: 1},
		{name: "at grace boundary", tickAt: at.Add(DefaultGraceWindow), wantOutcome: OutcomeFired, wantOn: true, wantFirings: 1},
		{name: "past grace", tickAt: at.Add(DefaultGraceWindow + time.Second), wantOutcome: OutcomeExpired, wantOn: false, wantFirings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(t)
			if err := Schedule(d, device.ActionOn, at, testNow, DefaultMinLead); err != nil {
				t.Fatalf("Schedule() error = %v", err)
			}

			firings := Evaluate(d, tt.tickAt, DefaultGraceWindow)
			if len(firings) != tt.wantFirings {
				t.Fatalf("Evaluate() returned %d firings, want %d", len(firings), tt.wantFirings)
			}
			if tt.wantFirings == 0 {
				if !d.TimerEnabled {
					t.Error("undue slot must stay pending")
				}
				return
			}

			f := firings[0]
			if f.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", f.Outcome, tt.wantOutcome)
			}
			if d.IsOn != tt.wantOn {
				t.Errorf("IsOn = %v, want %v", d.IsOn, tt.wantOn)
			}
			// Both outcomes clear the slot.
			if d.TimerAt(device.ActionOn) != nil || d.TimerEnabled {
				t.Error("evaluated slot must be cleared")
			}
		})
	}
}

func TestEvaluate_ExactlyOnce(t *testing.T) {
	d := newTestDevice(t)
	at := testNow.Add(2 * time.Minute)
	if err := Schedule(d, device.ActionOn, at, testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	// Ticks every second after the due time: exactly one firing.
	total := 0
	for i := 1; i <= 5; i++ {
		total += len(Evaluate(d, at.Add(time.Duration(i)*time.Second), DefaultGraceWindow))
	}
	if total != 1 {
		t.Errorf("timer fired %d times across repeated ticks, want exactly 1", total)
	}
	if !d.IsOn {
		t.Error("device should be on after the firing tick")
	}
}

func TestEvaluate_BothSlotsInOrder(t *testing.T) {
	d := newTestDevice(t)
	onAt := testNow.Add(time.Minute)
	offAt := testNow.Add(2 * time.Minute)
	if err := Schedule(d, device.ActionOn, onAt, testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := Schedule(d, device.ActionOff, offAt, testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	firings := Evaluate(d, testNow.Add(3*time.Minute), DefaultGraceWindow)
	if len(firings) != 2 {
		t.Fatalf("Evaluate() returned %d firings, want 2", len(firings))
	}
	if firings[0].Action != device.ActionOn || firings[1].Action != device.ActionOff {
		t.Errorf("firing order = %q then %q, want on then off", firings[0].Action, firings[1].Action)
	}
	if d.IsOn {
		t.Error("device should end off after on-then-off evaluation")
	}
	if d.TimerEnabled {
		t.Error("both slots should be cleared")
	}
}

func TestEvaluate_FiredWithoutChange(t *testing.T) {
	d := newTestDevice(t)
	d.Apply(device.ActionOn, testNow)

	at := testNow.Add(time.Minute)
	if err := Schedule(d, device.ActionOn, at, testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	firings := Evaluate(d, at.Add(time.Second), DefaultGraceWindow)
	if len(firings) != 1 {
		t.Fatalf("Evaluate() returned %d firings, want 1", len(firings))
	}
	if firings[0].Outcome != OutcomeFired {
		t.Errorf("Outcome = %q, want fired", firings[0].Outcome)
	}
	if firings[0].Changed {
		t.Error("firing ON on an already-on device must report no change")
	}
}

func TestCancelAndPending(t *testing.T) {
	d := newTestDevice(t)
	if err := Schedule(d, device.ActionOn, testNow.Add(time.Hour), testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := Schedule(d, device.ActionOff, testNow.Add(2*time.Hour), testNow, DefaultMinLead); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if got := Pending(d); len(got) != 2 {
		t.Fatalf("Pending() = %d views, want 2", len(got))
	}

	Cancel(d, device.ActionOn)
	got := Pending(d)
	if len(got) != 1 || got[0].Action != device.ActionOff {
		t.Fatalf("Pending() after cancel = %+v, want only the off slot", got)
	}
	if !d.TimerEnabled {
		t.Error("TimerEnabled should stay true while one slot pends")
	}

	// Cancelling an empty slot is a no-op.
	Cancel(d, device.ActionOn)
	Cancel(d, device.ActionOff)
	if d.TimerEnabled {
		t.Error("TimerEnabled should be false with no pending slots")
	}
}
