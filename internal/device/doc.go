// Package device defines the household device model.
//
// A Device is identified by its (type, room) key within one owner's
// household. Beyond the on/off state it carries the two optional timer
// slots the scheduler evaluates, and the energy bookkeeping fields.
//
// # Energy accounting
//
// Consumption of the open ON session is never accumulated incrementally.
// It is derived on demand from the power rating and the session start, and
// folded into the cumulative total exactly once — at the OFF transition or
// when the device is disconnected. CurrentEnergyKWh always includes the
// open session, so energy alerts see live consumption.
//
// # Timer slots
//
// One pending ON time and one pending OFF time may exist simultaneously;
// scheduling again overwrites the matching slot. TimerEnabled is derived:
// true exactly when at least one slot is pending.
package device
