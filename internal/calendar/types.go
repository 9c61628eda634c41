package calendar

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvickery/hearth-core/internal/device"
)

// EventType categorises a calendar event and selects its default
// automation template.
type EventType string

// Event type constants.
const (
	EventMeeting EventType = "meeting"
	EventMovie   EventType = "movie"
	EventDinner  EventType = "dinner"
	EventWorkout EventType = "workout"
	EventSleep   EventType = "sleep"
	EventOther   EventType = "other"
)

// AllEventTypes returns all known event type values.
func AllEventTypes() []EventType {
	return []EventType{
		EventMeeting, EventMovie, EventDinner, EventWorkout, EventSleep, EventOther,
	}
}

// ParseEventType converts a string to an EventType.
// Unrecognised values map to EventOther, which has no default actions.
func ParseEventType(s string) EventType {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllEventTypes() {
		if t == known {
			return t
		}
	}
	return EventOther
}

// Action is one time-relative device instruction attached to an event.
type Action struct {
	Device device.Key    `json:"device"`
	Action device.Action `json:"action"`

	// OffsetMinutes is relative to the event start; negative means before.
	OffsetMinutes int `json:"offset_minutes"`

	// LastFiredAt marks the last calendar day this action was applied,
	// so a tick cadence shorter than the matching window cannot fire it
	// twice. Committed by the scheduler, not by FindDue.
	LastFiredAt *time.Time `json:"last_fired_at,omitempty"`
}

// At resolves the action's absolute trigger time for the given event start.
func (a Action) At(start time.Time) time.Time {
	return start.Add(time.Duration(a.OffsetMinutes) * time.Minute)
}

// Event is one owner-scoped calendar entry with its automation actions.
//
// Actions are static once the event is created; editing replaces the
// event (fresh id) and regenerates the type's default actions.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      EventType `json:"type"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Actions   []Action  `json:"actions"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates an event with the type's default automation actions.
func NewEvent(title string, eventType EventType, start, end, now time.Time) (*Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}
	return &Event{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Type:      eventType,
		StartAt:   start,
		EndAt:     end,
		Actions:   DefaultActions(eventType, start, end),
		CreatedAt: now,
	}, nil
}

// DeepCopy creates an independent copy of the Event.
func (e *Event) DeepCopy() *Event {
	if e == nil {
		return nil
	}
	cpy := *e
	if e.Actions != nil {
		cpy.Actions = make([]Action, len(e.Actions))
		for i, a := range e.Actions {
			cpy.Actions[i] = a
			if a.LastFiredAt != nil {
				t := *a.LastFiredAt
				cpy.Actions[i].LastFiredAt = &t
			}
		}
	}
	return &cpy
}

// DefaultActions builds the automation template for an event type.
//
// Offsets are minutes from the event start; actions after the event end
// are expressed as start-relative offsets computed from the duration, so
// the whole template stays static once generated.
func DefaultActions(eventType EventType, start, end time.Time) []Action {
	afterEnd := int(end.Sub(start).Minutes())

	switch eventType {
	case EventMeeting:
		return []Action{
			{Device: device.NewKey("light", "study"), Action: device.ActionOn, OffsetMinutes: -10},
			{Device: device.NewKey("ac", "study"), Action: device.ActionOn, OffsetMinutes: -10},
			{Device: device.NewKey("light", "study"), Action: device.ActionOff, OffsetMinutes: afterEnd},
			{Device: device.NewKey("ac", "study"), Action: device.ActionOff, OffsetMinutes: afterEnd},
		}
	case EventMovie:
		return []Action{
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOn, OffsetMinutes: -5},
			{Device: device.NewKey("speaker", "lounge"), Action: device.ActionOn, OffsetMinutes: -5},
			{Device: device.NewKey("light", "lounge"), Action: device.ActionOff, OffsetMinutes: 0},
			{Device: device.NewKey("tv", "lounge"), Action: device.ActionOff, OffsetMinutes: afterEnd},
			{Device: device.NewKey("speaker", "lounge"), Action: device.ActionOff, OffsetMinutes: afterEnd},
		}
	case EventDinner:
		return []Action{
			{Device: device.NewKey("light", "dining"), Action: device.ActionOn, OffsetMinutes: -15},
			{Device: device.NewKey("ac", "dining"), Action: device.ActionOn, OffsetMinutes: -15},
			{Device: device.NewKey("light", "dining"), Action: device.ActionOff, OffsetMinutes: afterEnd + 15},
		}
	case EventWorkout:
		return []Action{
			{Device: device.NewKey("fan", "gym"), Action: device.ActionOn, OffsetMinutes: -5},
			{Device: device.NewKey("speaker", "gym"), Action: device.ActionOn, OffsetMinutes: 0},
			{Device: device.NewKey("fan", "gym"), Action: device.ActionOff, OffsetMinutes: afterEnd + 10},
			{Device: device.NewKey("speaker", "gym"), Action: device.ActionOff, OffsetMinutes: afterEnd},
		}
	case EventSleep:
		return []Action{
			{Device: device.NewKey("light", "bedroom"), Action: device.ActionOff, OffsetMinutes: 0},
			{Device: device.NewKey("ac", "bedroom"), Action: device.ActionOn, OffsetMinutes: -15},
			{Device: device.NewKey("tv", "bedroom"), Action: device.ActionOff, OffsetMinutes: 0},
		}
	default:
		return nil
	}
}
