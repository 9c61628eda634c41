// Package mqtt provides Hearth's outbound event bus.
//
// The client wraps paho.mqtt.golang with connection management, LWT
// offline detection, and auto-reconnect. Hearth is publish-only on the
// bus: trigger records go out under hearth/event/{kind}, service status
// under hearth/system/status. Nothing in the automation core consumes
// MQTT traffic.
package mqtt
