// Package calendar owns per-owner calendar events and their automation
// actions.
//
// Each event carries a static action list generated from its type's
// default template at creation time; offsets are minutes relative to the
// event start. FindDue matches actions against the clock within a
// symmetric tolerance window, and a per-action fired marker (committed
// by the scheduler via MarkFired) guarantees each action applies at most
// once per calendar day even when ticks land inside the window more than
// once.
//
// Events are addressed by title. Editing an event replaces it wholesale
// with a fresh id and regenerated actions rather than patching in place.
package calendar
