// Package household is the synchronous command surface of the
// automation core.
//
// The Service facade fronts the owner registry and exposes the
// operations user commands need: connecting and toggling devices,
// scheduling timers, managing alerts and calendar events, and executing
// or editing scenes. Each mutating call runs under the owner's mutation
// lock, persists once on change, and emits trigger records for the
// actions worth reporting.
//
// The periodic evaluation path lives in the scheduler package; this
// package never runs on a tick.
package household
