// Package timer owns the per-device ON/OFF schedule.
//
// Timers are not separate entities: each device carries one optional ON
// time and one optional OFF time. Schedule and Cancel manipulate those
// slots; Evaluate is called by the scheduler each tick.
//
// # Firing rule
//
// A slot is due once the current time reaches its scheduled time. Within
// the grace window after that, it fires and the device transitions.
// Beyond the window it expires: the slot is cleared, the device untouched.
// Expiry bounds how late a stalled scheduler can apply a missed timer —
// missed windows die quietly instead of firing arbitrarily late.
package timer
