// Package events distributes trigger records.
//
// The scheduler and the scene executor describe what they did as
// Records; the Recorder writes each one to the structured log, publishes
// it on the MQTT event bus under hearth/event/{kind} and the per-owner
// hearth/event/owner/{id}/{kind}, and pushes it to websocket
// subscribers. Distribution is best effort and never surfaces an error
// to the automation path.
package events
