// Package alert owns per-owner alert definitions and their evaluation.
//
// Two variants exist, discriminated by Kind: time-based alerts fire once
// the clock reaches an absolute trigger time; energy alerts fire when a
// device's cumulative consumption satisfies a threshold comparator
// (GT, LT, or EQ with a 0.01 kWh epsilon).
//
// Evaluation is pure over the owner's alert slice plus a device lookup;
// the scheduler drives it each tick, inside the owner's lock. Firing
// increments the trigger count, stamps the trigger time, and — by default —
// deletes the alert, giving the exactly-once reporting the trigger loop
// relies on. Alerts created with auto-delete disabled are deactivated
// (time) or left active (energy) instead.
package alert
