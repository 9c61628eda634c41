// Package api exposes the automation core over HTTP.
//
// The server wraps the household service and the scheduler behind a
// chi router under /api/v1: owner records, devices and their timers,
// alerts, calendar events, and scenes, plus a websocket endpoint that
// streams trigger records to connected UI clients.
//
// Responses are JSON. Errors use a structured envelope with a status,
// a machine-readable code, and a message; domain errors map to 400,
// 404, or 409 via writeDomainError.
package api
