// Package scene owns the built-in scene catalog, per-owner overrides,
// and synchronous batch execution.
//
// A scene is a named, ordered list of device target-state assignments
// with at most one action per device. The factory catalog ships nine
// upper-cased scenes; editing any of them writes a copy-on-write owner
// override that shadows the built-in until explicitly reset, and new
// names create wholly custom scenes.
//
// Execution applies each action independently with no rollback. The
// report accounts per action: applied, already correct (no mutation
// needed), or failed (device not connected), preserving action order.
package scene
