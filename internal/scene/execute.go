package scene

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvickery/hearth-core/internal/device"
)

// ResultStatus classifies the outcome of one scene action.
type ResultStatus string

// Result status values.
const (
	StatusApplied        ResultStatus = "applied"
	StatusAlreadyCorrect ResultStatus = "already_correct"
	StatusFailed         ResultStatus = "failed"
)

// ActionResult is the per-action line of an execution report.
type ActionResult struct {
	Device      device.Key    `json:"device"`
	Action      device.Action `json:"action"`
	Description string        `json:"description"`
	Status      ResultStatus  `json:"status"`
	Detail      string        `json:"detail"`
}

// Report is the outcome of one scene execution. Results preserve scene
// action order; counts are derived as each action resolves.
type Report struct {
	ID             string         `json:"id"`
	Scene          string         `json:"scene"`
	At             time.Time      `json:"at"`
	Results        []ActionResult `json:"results"`
	Total          int            `json:"total"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	Applied        int            `json:"applied"`
	AlreadyCorrect int            `json:"already_correct"`
}

// FullySuccessful reports whether every action succeeded.
func (r *Report) FullySuccessful() bool { return r.Failed == 0 }

// PartiallySuccessful reports whether at least one action succeeded.
func (r *Report) PartiallySuccessful() bool { return r.Succeeded > 0 }

// Summary renders a one-line human-readable account of the execution.
func (r *Report) Summary() string {
	return fmt.Sprintf("scene %s: %d/%d succeeded (%d applied, %d already correct, %d failed)",
		r.Scene, r.Succeeded, r.Total, r.Applied, r.AlreadyCorrect, r.Failed)
}

// DeviceLookup resolves a scene action's target device within the owner.
// Nil means the device is not connected.
type DeviceLookup func(device.Key) *device.Device

// Execute resolves the named scene for the owner and applies each action
// independently. There is no rollback: a missing device fails its own
// action and the rest proceed. A device already in the target state
// counts as success with an "already correct" note and no mutation.
func Execute(overrides map[string]Scene, name string, lookup DeviceLookup, now time.Time) (*Report, error) {
	s, err := Resolve(overrides, name)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:    uuid.NewString(),
		Scene: s.Name,
		At:    now,
		Total: len(s.Actions),
	}

	for _, action := range s.Actions {
		res := ActionResult{
			Device:      action.Device,
			Action:      action.Action,
			Description: action.Description,
		}

		d := lookup(action.Device)
		switch {
		case d == nil:
			res.Status = StatusFailed
			res.Detail = "device not connected"
			report.Failed++
		case d.Apply(action.Action, now):
			res.Status = StatusApplied
			res.Detail = fmt.Sprintf("turned %s", action.Action)
			report.Applied++
			report.Succeeded++
		default:
			res.Status = StatusAlreadyCorrect
			res.Detail = fmt.Sprintf("already %s", action.Action)
			report.AlreadyCorrect++
			report.Succeeded++
		}

		report.Results = append(report.Results, res)
	}

	return report, nil
}
