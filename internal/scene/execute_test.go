package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/mvickery/hearth-core/internal/device"
)

var testNow = time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)

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

func TestResolve(t *testing.T) {
	overrides := map[string]Scene{
		"MOVIE": {Name: "MOVIE", Actions: []Action{
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOn, Description: "custom"},
		}},
	}

	s, err := Resolve(overrides, "movie")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(s.Actions) != 1 || s.Actions[0].Description != "custom" {
		t.Errorf("Resolve() returned built-in, want the override")
	}

	if s, err = Resolve(overrides, " morning "); err != nil || s.Name != "MORNING" {
		t.Errorf("Resolve(morning) = (%v, %v), want the built-in", s, err)
	}

	if _, err = Resolve(overrides, "DISCO"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(unknown) error = %v, want ErrNotFound", err)
	}

	// Resolve hands out copies.
	s, _ = Resolve(overrides, "movie")
	s.Actions[0].Description = "mutated"
	if overrides["MOVIE"].Actions[0].Description != "custom" {
		t.Error("Resolve() leaked the stored override")
	}
}

func TestExecute_PartialFailure(t *testing.T) {
	tv := newDevice(t, device.NewKey("tv", "lounge"), 120)
	overrides := map[string]Scene{
		"TEST": {Name: "TEST", Actions: []Action{
			{Device: tv.Key, Action: device.ActionOn, Description: "screen"},
			{Device: device.NewKey("speaker", "attic"), Action: device.ActionOn, Description: "missing"},
		}},
	}

	report, err := Execute(overrides, "test", testLookup(tv), testNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if report.Total != 2 || report.Succeeded != 1 || report.Failed != 1 {
		t.Errorf("counts = total %d / succeeded %d / failed %d, want 2/1/1",
			report.Total, report.Succeeded, report.Failed)
	}
	if report.FullySuccessful() {
		t.Error("FullySuccessful() = true with a failed action")
	}
	if !report.PartiallySuccessful() {
		t.Error("PartiallySuccessful() = false with a succeeded action")
	}
	if report.Results[0].Status != StatusApplied || report.Results[1].Status != StatusFailed {
		t.Errorf("result order = [%s, %s], want scene order preserved",
			report.Results[0].Status, report.Results[1].Status)
	}
	if !tv.IsOn {
		t.Error("existing device not mutated")
	}
}

func TestExecute_Idempotent(t *testing.T) {
	tv := newDevice(t, device.NewKey("tv", "lounge"), 120)
	speaker := newDevice(t, device.NewKey("speaker", "lounge"), 60)
	light := newDevice(t, device.NewKey("light", "lounge"), 40)
	light.Apply(device.ActionOn, testNow.Add(-time.Hour))
	lookup := testLookup(tv, speaker, light)

	first, err := Execute(nil, "MOVIE", lookup, testNow)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.Applied != 3 || first.Failed != 0 {
		t.Fatalf("first run applied %d / failed %d, want 3/0", first.Applied, first.Failed)
	}

	second, err := Execute(nil, "MOVIE", lookup, testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if second.Applied != 0 {
		t.Errorf("second run applied %d mutations, want 0", second.Applied)
	}
	if second.AlreadyCorrect != first.Applied {
		t.Errorf("second run alreadyCorrect = %d, want first run's applied count %d",
			second.AlreadyCorrect, first.Applied)
	}
	if !second.FullySuccessful() {
		t.Error("idempotent re-run should be fully successful")
	}
}

func TestExecute_UnknownScene(t *testing.T) {
	if _, err := Execute(nil, "DISCO", testLookup(), testNow); !errors.Is(err, ErrNotFound) {
		t.Errorf("Execute(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestEdit_CopyOnWrite(t *testing.T) {
	overrides := map[string]Scene{}
	fan := device.NewKey("fan", "lounge")

	if err := AddAction(overrides, "movie", Action{Device: fan, Action: device.ActionOn, Description: "breeze"}); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}

	// The override carries the built-in actions plus the new one.
	builtin := BuiltIn("MOVIE")
	if got := len(overrides["MOVIE"].Actions); got != len(builtin.Actions)+1 {
		t.Errorf("override has %d actions, want %d", got, len(builtin.Actions)+1)
	}
	// The catalog itself is untouched.
	if got := len(BuiltIn("MOVIE").Actions); got != len(builtin.Actions) {
		t.Errorf("built-in catalog mutated: %d actions", got)
	}

	if err := AddAction(overrides, "movie", Action{Device: fan, Action: device.ActionOff}); !errors.Is(err, ErrDuplicateDevice) {
		t.Errorf("duplicate AddAction() error = %v, want ErrDuplicateDevice", err)
	}
}

func TestEdit_CustomSceneAndRemoveChange(t *testing.T) {
	overrides := map[string]Scene{}
	heater := device.NewKey("heater", "study")
	lamp := device.NewKey("light", "study")

	if err := AddAction(overrides, "winter desk", Action{Device: heater, Action: device.ActionOn}); err != nil {
		t.Fatalf("AddAction(custom) error = %v", err)
	}
	if err := AddAction(overrides, "winter desk", Action{Device: lamp, Action: device.ActionOn}); err != nil {
		t.Fatalf("AddAction(custom second) error = %v", err)
	}

	if err := ChangeAction(overrides, "winter desk", heater, device.ActionOff, "too warm"); err != nil {
		t.Fatalf("ChangeAction() error = %v", err)
	}
	s := overrides["WINTER DESK"]
	if s.Actions[0].Action != device.ActionOff || s.Actions[0].Description != "too warm" {
		t.Errorf("ChangeAction() left %+v", s.Actions[0])
	}

	if err := ChangeAction(overrides, "winter desk", device.NewKey("tv", "study"), device.ActionOn, ""); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("ChangeAction(missing device) error = %v, want ErrActionNotFound", err)
	}

	if err := RemoveAction(overrides, "winter desk", heater); err != nil {
		t.Fatalf("RemoveAction() error = %v", err)
	}
	if got := len(overrides["WINTER DESK"].Actions); got != 1 {
		t.Errorf("scene has %d actions after remove, want 1", got)
	}

	if err := RemoveAction(overrides, "no such", heater); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveAction(unknown scene) error = %v, want ErrNotFound", err)
	}
}

func TestResetToBuiltIn(t *testing.T) {
	overrides := map[string]Scene{}
	fan := device.NewKey("fan", "lounge")
	if err := AddAction(overrides, "night", Action{Device: fan, Action: device.ActionOn}); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}

	if err := ResetToBuiltIn(overrides, "night"); err != nil {
		t.Fatalf("ResetToBuiltIn() error = %v", err)
	}
	if _, ok := overrides["NIGHT"]; ok {
		t.Error("override survived reset")
	}

	s, err := Resolve(overrides, "night")
	if err != nil || len(s.Actions) != len(BuiltIn("NIGHT").Actions) {
		t.Errorf("post-reset Resolve() = (%v, %v), want the factory scene", s, err)
	}

	if err := ResetToBuiltIn(overrides, "winter desk"); !errors.Is(err, ErrNotBuiltIn) {
		t.Errorf("ResetToBuiltIn(custom) error = %v, want ErrNotBuiltIn", err)
	}
}

func TestListAvailable(t *testing.T) {
	overrides := map[string]Scene{}
	if err := AddAction(overrides, "movie", Action{Device: device.NewKey("fan", "lounge"), Action: device.ActionOn}); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}
	if err := AddAction(overrides, "winter desk", Action{Device: device.NewKey("heater", "study"), Action: device.ActionOn}); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}

	list := ListAvailable(overrides)
	if len(list) != 10 {
		t.Fatalf("ListAvailable() returned %d entries, want 9 built-ins + 1 custom", len(list))
	}

	byName := make(map[string]Available, len(list))
	for _, a := range list {
		byName[a.Name] = a
	}
	if a := byName["MOVIE"]; !a.BuiltIn || !a.Overridden {
		t.Errorf("MOVIE = %+v, want built-in and overridden", a)
	}
	if a := byName["MORNING"]; !a.BuiltIn || a.Overridden {
		t.Errorf("MORNING = %+v, want pristine built-in", a)
	}
	if a := byName["WINTER DESK"]; a.BuiltIn || !a.Overridden {
		t.Errorf("WINTER DESK = %+v, want custom", a)
	}
}
