// Package config loads and validates Hearth Core configuration.
//
// Configuration comes from three layers, each overriding the previous:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. A YAML file (configs/config.yaml by default)
//  3. Environment variables (HEARTH_SECTION_KEY)
//
// # Sections
//
//   - site:      household identity and timezone
//   - database:  SQLite settings for the owner record store
//   - mqtt:      event bus broker settings (optional)
//   - api:       HTTP server settings
//   - websocket: event stream settings
//   - influxdb:  energy telemetry settings (optional)
//   - logging:   level, format, output
//   - scheduler: trigger loop cadence and matching windows
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    // configuration is invalid; refuse to start
//	}
//
// Validate is called by Load; a Config constructed by hand (tests) should
// call it explicitly.
package config
