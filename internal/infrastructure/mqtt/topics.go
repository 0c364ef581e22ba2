package mqtt

import "fmt"

// Topic prefixes for the FarmCore MQTT namespace.
//
// Zone topics use the flat scheme: farmcore/zone/{zone_id}/{category}
// System topics are farm-scoped where a farm ID applies.
const (
	// TopicPrefix is the base for all FarmCore topics.
	TopicPrefix = "farmcore"

	// TopicPrefixZone is the base for zone topics.
	TopicPrefixZone = "farmcore/zone"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "farmcore/system"

	// TopicPrefixEvent is the base for event topics.
	TopicPrefixEvent = "farmcore/event"
)

// Topics provides builders for FarmCore MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.ZoneState("zone-north-01")
//	// Returns: "farmcore/zone/zone-north-01/state"
type Topics struct{}

// ZoneState returns the topic for canonical zone state publications.
// This is the authoritative state published after a controller command completes.
//
// Example: farmcore/zone/zone-north-01/state
func (Topics) ZoneState(zoneID string) string {
	return fmt.Sprintf("%s/%s/state", TopicPrefixZone, zoneID)
}

// ZoneCommand returns the topic for commands addressed to a zone's valve hardware.
//
// Example: farmcore/zone/zone-north-01/command
func (Topics) ZoneCommand(zoneID string) string {
	return fmt.Sprintf("%s/%s/command", TopicPrefixZone, zoneID)
}

// ZoneTelemetry returns the topic for raw sensor readings from a zone.
//
// Example: farmcore/zone/zone-north-01/telemetry
func (Topics) ZoneTelemetry(zoneID string) string {
	return fmt.Sprintf("%s/%s/telemetry", TopicPrefixZone, zoneID)
}

// Event returns the topic for system events.
//
// Example: farmcore/event/emergency_activated
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, eventType)
}

// FarmStatus returns the aggregated status topic for a farm.
//
// Example: farmcore/system/farm-001/status
func (Topics) FarmStatus(farmID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixSystem, farmID)
}

// SystemStatus returns the service online/offline status topic.
//
// Example: farmcore/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemShutdown returns the shutdown signal topic.
//
// Example: farmcore/system/shutdown
func (Topics) SystemShutdown() string {
	return fmt.Sprintf("%s/shutdown", TopicPrefixSystem)
}

// AllZoneStates returns a pattern matching all zone state publications.
//
// Pattern: farmcore/zone/+/state
func (Topics) AllZoneStates() string {
	return fmt.Sprintf("%s/+/state", TopicPrefixZone)
}

// AllZoneCommands returns a pattern matching all zone commands.
//
// Pattern: farmcore/zone/+/command
func (Topics) AllZoneCommands() string {
	return fmt.Sprintf("%s/+/command", TopicPrefixZone)
}

// AllZoneTelemetry returns a pattern matching all zone telemetry readings.
//
// Pattern: farmcore/zone/+/telemetry
func (Topics) AllZoneTelemetry() string {
	return fmt.Sprintf("%s/+/telemetry", TopicPrefixZone)
}

// AllEvents returns a pattern matching all system events.
//
// Pattern: farmcore/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/+", TopicPrefixEvent)
}

// AllTopics returns a pattern matching all FarmCore topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: farmcore/#
func (Topics) AllTopics() string {
	return "farmcore/#"
}
