// Package influxdb provides time-series storage for Hearth's energy
// telemetry.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes, and health monitoring. Hearth
// writes two measurements: "energy" when an ON session folds into a
// device's cumulative total, and "alert_triggers" when an energy alert
// fires.
//
// The integration is optional; when disabled in configuration Connect
// returns ErrDisabled and callers run without telemetry.
package influxdb
