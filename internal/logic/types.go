// Package logic contains the pure event-detection state machine for the
// rotary encoder and buttons. It has NO external dependencies (no GPIO, OS,
// or time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// EventType is an output token from the fixed event vocabulary.
// Consumers must treat unrecognized tokens as no-ops so the vocabulary
// can grow without breaking them.
type EventType string

const (
	EventRotaryCW   EventType = "ROTARY_CW"
	EventRotaryCCW  EventType = "ROTARY_CCW"
	EventBtnPress   EventType = "BTN_PRESS"
	EventBtnRelease EventType = "BTN_RELEASE"
	EventBtnNext    EventType = "BTN_NEXT"
)

// Event is a single detected input event.
type Event struct {
	Timestamp time.Time
	Type      EventType
}

// Input is one poll-cycle sample of the four input lines.
// All values are logical line states: true = active.
// The buttons are wired active-low with pull-ups, so a physical press
// drives the line from active to inactive.
type Input struct {
	CLK  bool
	DT   bool
	SW   bool
	Next bool
	Time time.Time
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	CW      int
	CCW     int
	Press   int
	Release int
	Next    int
}

// HeartbeatData contains information for a heartbeat telemetry event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
