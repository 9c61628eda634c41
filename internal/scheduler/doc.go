// Package scheduler runs the periodic evaluation loop of the automation
// core.
//
// On a fixed cadence it walks every owner and, under that owner's
// mutation lock, evaluates due timers, due calendar actions, and alert
// conditions, in that order. Device transitions, fired markers, and
// alert bookkeeping all land in the same record save. Trigger records
// and energy telemetry fan out after the lock is released.
//
// The loop never raises an error to a caller: persistence failures keep
// the in-memory state and are logged, and a panic while evaluating one
// owner is contained to that owner.
package scheduler
