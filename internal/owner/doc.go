// Package owner holds the per-owner aggregate record and its
// persistence.
//
// A Record bundles one owner's devices, alerts, calendar events, and
// scene overrides into a single document; the Store persists it whole,
// one row per owner, last writer wins. The Registry caches records in
// memory and hands out a per-owner mutex so every mutation, whether a
// user command or a scheduler tick, runs read-modify-persist without
// interleaving.
package owner
