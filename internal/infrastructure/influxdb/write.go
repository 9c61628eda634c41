package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEnergyFold records a closed ON session at the moment it folds
// into a device's cumulative total.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - ownerID: Owner the device belongs to
//   - deviceKey: Device identity as "type/room"
//   - sessionKWh: Consumption of the session that just closed
//   - cumulativeKWh: Device lifetime total after the fold
//   - at: When the fold happened
func (c *Client) WriteEnergyFold(ownerID, deviceKey string, sessionKWh, cumulativeKWh float64, at time.Time) {
	c.WritePointWithTime(
		"energy",
		map[string]string{
			"owner_id": ownerID,
			"device":   deviceKey,
		},
		map[string]interface{}{
			"session_kwh":    sessionKWh,
			"cumulative_kwh": cumulativeKWh,
		},
		at,
	)
}

// WriteAlertTrigger records an energy alert firing with the measured
// value that tripped it.
//
// Parameters:
//   - ownerID: Owner the alert belongs to
//   - deviceKey: Target device as "type/room"
//   - alertName: Owner-facing alert name
//   - valueKWh: The consumption value at trigger time
//   - at: When the alert fired
func (c *Client) WriteAlertTrigger(ownerID, deviceKey, alertName string, valueKWh float64, at time.Time) {
	c.WritePointWithTime(
		"alert_triggers",
		map[string]string{
			"owner_id": ownerID,
			"device":   deviceKey,
			"alert":    alertName,
		},
		map[string]interface{}{
			"value_kwh": valueKWh,
		},
		at,
	)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this for measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
