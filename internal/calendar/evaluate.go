package calendar

import (
	"sort"
	"strings"
	"time"
)

// Due is one automation action whose trigger time falls inside the
// current matching window. ActionIndex addresses the action inside the
// event so the scheduler can commit the fired marker after applying it.
type Due struct {
	Event       *Event
	ActionIndex int
	At          time.Time
}

// FindDue returns the actions due at now, within the given tolerance of
// their resolved trigger times.
//
// An action matches when |now - at| <= tolerance and it has not already
// fired today. FindDue is a pure query; the caller applies each action
// and then commits MarkFired, so a failed application stays eligible on
// the next tick.
func FindDue(events []Event, now time.Time, tolerance time.Duration) []Due {
	var due []Due
	for i := range events {
		e := &events[i]
		for j := range e.Actions {
			at := e.Actions[j].At(e.StartAt)
			if absDiff(now, at) > tolerance {
				continue
			}
			if firedOn(e.Actions[j].LastFiredAt, now) {
				continue
			}
			due = append(due, Due{Event: e, ActionIndex: j, At: at})
		}
	}
	return due
}

// MarkFired records that the action fired on now's calendar day.
func MarkFired(e *Event, actionIndex int, now time.Time) {
	if e == nil || actionIndex < 0 || actionIndex >= len(e.Actions) {
		return
	}
	t := now
	e.Actions[actionIndex].LastFiredAt = &t
}

// firedOn reports whether the marker falls on the same UTC calendar day
// as now.
func firedOn(marker *time.Time, now time.Time) bool {
	if marker == nil {
		return false
	}
	my, mm, md := marker.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return my == ny && mm == nm && md == nd
}

func absDiff(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

// FindByTitle returns a pointer to the first event whose title matches
// case-insensitively, or nil.
func FindByTitle(events []Event, title string) *Event {
	want := strings.ToLower(strings.TrimSpace(title))
	for i := range events {
		if strings.ToLower(events[i].Title) == want {
			return &events[i]
		}
	}
	return nil
}

// Add appends a new event to the slice.
// Returns ErrInvalidTitle when another event already carries the title;
// titles are the owner-facing handle and must stay unambiguous.
func Add(events *[]Event, e *Event) error {
	if FindByTitle(*events, e.Title) != nil {
		return ErrInvalidTitle
	}
	*events = append(*events, *e)
	return nil
}

// Replace swaps the titled event for a freshly built one.
//
// The replacement has a new id and the regenerated default actions for
// the (possibly changed) type and times, so fired markers from the old
// schedule never suppress the new one.
func Replace(events *[]Event, title string, replacement *Event) error {
	for i := range *events {
		if strings.EqualFold((*events)[i].Title, strings.TrimSpace(title)) {
			(*events)[i] = *replacement
			return nil
		}
	}
	return ErrNotFound
}

// Remove deletes the titled event and returns its automation actions so
// the caller can report what was cancelled with it.
func Remove(events *[]Event, title string) ([]Action, error) {
	for i := range *events {
		if strings.EqualFold((*events)[i].Title, strings.TrimSpace(title)) {
			cancelled := (*events)[i].Actions
			*events = append((*events)[:i], (*events)[i+1:]...)
			return cancelled, nil
		}
	}
	return nil, ErrNotFound
}

// Upcoming returns up to limit events starting at or after now, soonest
// first. A limit of zero or less means no cap.
func Upcoming(events []Event, now time.Time, limit int) []Event {
	var out []Event
	for i := range events {
		if !events[i].StartAt.Before(now) {
			out = append(out, *events[i].DeepCopy())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
