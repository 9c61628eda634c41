package scene

import (
	"sort"
	"strings"

	"github.com/mvickery/hearth-core/internal/device"
)

// Action is one device target-state assignment inside a scene.
type Action struct {
	Device      device.Key    `json:"device"`
	Action      device.Action `json:"action"`
	Description string        `json:"description"`
}

// Scene is a named, ordered batch of device actions applied together.
//
// Invariant: at most one action per device key inside one scene version.
type Scene struct {
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// DeepCopy creates an independent copy of the Scene.
func (s *Scene) DeepCopy() *Scene {
	if s == nil {
		return nil
	}
	cpy := *s
	if s.Actions != nil {
		cpy.Actions = make([]Action, len(s.Actions))
		copy(cpy.Actions, s.Actions)
	}
	return &cpy
}

// NormalizeName upper-cases and trims a scene name; scene identity is
// case-insensitive at the edges, upper-case in storage.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// builtins is the fixed factory catalog. Owner overrides shadow entries
// here without ever mutating them.
var builtins = map[string]Scene{
	"MORNING": {
		Name: "MORNING",
		Actions: []Action{
			{Device: device.NewKey("light", "bedroom"), Action: device.ActionOn, Description: "wake-up light"},
			{Device: device.NewKey("geyser", "bathroom"), Action: device.ActionOn, Description: "hot water for showers"},
			{Device: device.NewKey("light", "kitchen"), Action: device.ActionOn, Description: "kitchen light"},
			{Device: device.NewKey("ac", "bedroom"), Action: device.ActionOff, Description: "night cooling off"},
		},
	},
	"NIGHT": {
		Name: "NIGHT",
		Actions: []Action{
			{Device: device.NewKey("light", "lounge"), Action: device.ActionOff, Description: "lounge dark"},
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOff, Description: "tv off"},
			{Device: device.NewKey("light", "bedroom"), Action: device.ActionOff, Description: "bedroom dark"},
			{Device: device.NewKey("ac", "bedroom"), Action: device.ActionOn, Description: "sleep cooling"},
		},
	},
	"MOVIE": {
		Name: "MOVIE",
		Actions: []Action{
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOn, Description: "screen on"},
			{Device: device.NewKey("speaker", "lounge"), Action: device.ActionOn, Description: "surround sound"},
			{Device: device.NewKey("light", "lounge"), Action: device.ActionOff, Description: "lights down"},
		},
	},
	"PARTY": {
		Name: "PARTY",
		Actions: []Action{
			{Device: device.NewKey("speaker", "lounge"), Action: device.ActionOn, Description: "music up"},
			{Device: device.NewKey("light", "lounge"), Action: device.ActionOn, Description: "lounge lit"},
			{Device: device.NewKey("light", "dining"), Action: device.ActionOn, Description: "dining lit"},
			{Device: device.NewKey("ac", "lounge"), Action: device.ActionOn, Description: "keep the crowd cool"},
		},
	},
	"AWAY": {
		Name: "AWAY",
		Actions: []Action{
			{Device: device.NewKey("light", "lounge"), Action: device.ActionOff, Description: "no one home"},
			{Device: device.NewKey("ac", "lounge"), Action: device.ActionOff, Description: "no one home"},
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOff, Description: "no one home"},
			{Device: device.NewKey("geyser", "bathroom"), Action: device.ActionOff, Description: "no hot water needed"},
			{Device: device.NewKey("air_purifier", "bedroom"), Action: device.ActionOff, Description: "no one home"},
		},
	},
	"ROMANTIC": {
		Name: "ROMANTIC",
		Actions: []Action{
			{Device: device.NewKey("light", "dining"), Action: device.ActionOff, Description: "candlelight only"},
			{Device: device.NewKey("speaker", "dining"), Action: device.ActionOn, Description: "soft music"},
			{Device: device.NewKey("ac", "dining"), Action: device.ActionOn, Description: "comfortable"},
		},
	},
	"WORKOUT": {
		Name: "WORKOUT",
		Actions: []Action{
			{Device: device.NewKey("fan", "gym"), Action: device.ActionOn, Description: "airflow"},
			{Device: device.NewKey("speaker", "gym"), Action: device.ActionOn, Description: "training mix"},
			{Device: device.NewKey("light", "gym"), Action: device.ActionOn, Description: "gym lit"},
		},
	},
	"STUDY": {
		Name: "STUDY",
		Actions: []Action{
			{Device: device.NewKey("light", "study"), Action: device.ActionOn, Description: "desk light"},
			{Device: device.NewKey("ac", "study"), Action: device.ActionOn, Description: "stay sharp"},
			{Device: device.NewKey("speaker", "study"), Action: device.ActionOff, Description: "no distractions"},
		},
	},
	"ALL_OFF": {
		Name: "ALL_OFF",
		Actions: []Action{
			{Device: device.NewKey("light", "lounge"), Action: device.ActionOff, Description: "everything off"},
			{Device: device.NewKey("light", "bedroom"), Action: device.ActionOff, Description: "everything off"},
			{Device: device.NewKey("light", "kitchen"), Action: device.ActionOff, Description: "everything off"},
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOff, Description: "everything off"},
			{Device: device.NewKey("speaker", "lounge"), Action: device.ActionOff, Description: "everything off"},
			{Device: device.NewKey("ac", "bedroom"), Action: device.ActionOff, Description: "everything off"},
			{Device: device.NewKey("geyser", "bathroom"), Action: device.ActionOff, Description: "everything off"},
		},
	},
}

// IsBuiltIn reports whether the name exists in the factory catalog.
func IsBuiltIn(name string) bool {
	_, ok := builtins[NormalizeName(name)]
	return ok
}

// BuiltIn returns a copy of the named factory scene, or nil.
func BuiltIn(name string) *Scene {
	if s, ok := builtins[NormalizeName(name)]; ok {
		return s.DeepCopy()
	}
	return nil
}

// Resolve returns the effective scene for the owner: the override when
// one exists, otherwise the built-in. The result is always a copy.
func Resolve(overrides map[string]Scene, name string) (*Scene, error) {
	key := NormalizeName(name)
	if s, ok := overrides[key]; ok {
		return s.DeepCopy(), nil
	}
	if s, ok := builtins[key]; ok {
		return s.DeepCopy(), nil
	}
	return nil, ErrNotFound
}

// Available lists all scene names the owner can execute: the built-in
// catalog plus custom names, sorted. Overridden reports which carry an
// owner override (including wholly custom scenes).
type Available struct {
	Name       string `json:"name"`
	Overridden bool   `json:"overridden"`
	BuiltIn    bool   `json:"built_in"`
}

// ListAvailable enumerates the owner's executable scenes.
func ListAvailable(overrides map[string]Scene) []Available {
	seen := make(map[string]Available, len(builtins)+len(overrides))
	for name := range builtins {
		seen[name] = Available{Name: name, BuiltIn: true}
	}
	for name := range overrides {
		a := seen[name]
		a.Name = name
		a.Overridden = true
		seen[name] = a
	}

	out := make([]Available, 0, len(seen))
	for _, a := range seen {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
