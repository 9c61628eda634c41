package mqtt

import "fmt"

// Topic prefixes for the Hearth event bus.
//
// The bus carries observability traffic only: trigger records and system
// status. Device control never goes over MQTT.
const (
	// TopicPrefix is the base for all Hearth topics.
	TopicPrefix = "hearth"

	// TopicPrefixEvent is the base for trigger record topics.
	TopicPrefixEvent = "hearth/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "hearth/system"
)

// Topics provides builders for Hearth MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// Event returns the topic for a trigger record of the given kind.
//
// Example: hearth/event/timer_fired
func (Topics) Event(kind string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, kind)
}

// OwnerEvent returns the per-owner topic for a trigger record.
//
// Example: hearth/event/owner/9f1c.../alert_triggered
func (Topics) OwnerEvent(ownerID, kind string) string {
	return fmt.Sprintf("%s/owner/%s/%s", TopicPrefixEvent, ownerID, kind)
}

// SystemStatus returns the service status topic.
//
// Example: hearth/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
