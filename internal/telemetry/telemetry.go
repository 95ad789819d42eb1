// Package telemetry publishes daemon lifecycle events over MQTT.
// It deliberately carries no input events: the stdout token stream is the
// sole consumer interface for those. Telemetry failures are never fatal.
package telemetry

import (
	"encoding/json"
	"time"
)

// TopicSystem is the MQTT topic for lifecycle events.
const TopicSystem = "media/encoderd/system"

// Publisher publishes lifecycle events to a broker.
type Publisher interface {
	// PublishSystem sends a lifecycle event. Implementations must not
	// crash the process on failure.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle event.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT", "READ_FAULT"
	Reason     string // e.g. "interrupt", "terminated" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool   // whether the broker should retain the message
}

// SystemPayload is the JSON envelope for simple lifecycle events that do not
// carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the lifecycle event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a lifecycle event.
// If event.RawPayload is set it is returned directly (used for full status
// snapshots built by the status package).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
