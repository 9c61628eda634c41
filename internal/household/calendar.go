package household

import (
	"context"
	"time"

	"github.com/mvickery/hearth-core/internal/calendar"
	"github.com/mvickery/hearth-core/internal/owner"
)

// CreateEvent adds a calendar event with its type's default automation
// actions.
func (s *Service) CreateEvent(ctx context.Context, ownerID, title, eventType string, start, end time.Time) (*calendar.Event, error) {
	var created *calendar.Event
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		e, err := calendar.NewEvent(title, calendar.ParseEventType(eventType), start, end, s.now().UTC())
		if err != nil {
			return false, err
		}
		if err := calendar.Add(&rec.Events, e); err != nil {
			return false, err
		}
		created = e.DeepCopy()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditEvent replaces the titled event wholesale: fresh id, regenerated
// default actions for the new type and times. Fired markers from the old
// schedule are discarded with the old event.
func (s *Service) EditEvent(ctx context.Context, ownerID, title, eventType string, start, end time.Time) (*calendar.Event, error) {
	var replaced *calendar.Event
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		e, err := calendar.NewEvent(title, calendar.ParseEventType(eventType), start, end, s.now().UTC())
		if err != nil {
			return false, err
		}
		if err := calendar.Replace(&rec.Events, title, e); err != nil {
			return false, err
		}
		replaced = e.DeepCopy()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

// DeleteEvent removes the titled event and returns the automation
// actions cancelled with it. Past automation is not rolled back.
func (s *Service) DeleteEvent(ctx context.Context, ownerID, title string) ([]calendar.Action, error) {
	var cancelled []calendar.Action
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		actions, err := calendar.Remove(&rec.Events, title)
		if err != nil {
			return false, err
		}
		cancelled = actions
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// UpcomingEvents returns up to limit of the owner's future events,
// soonest first.
func (s *Service) UpcomingEvents(ctx context.Context, ownerID string, limit int) ([]calendar.Event, error) {
	rec, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return calendar.Upcoming(rec.Events, s.now().UTC(), limit), nil
}
