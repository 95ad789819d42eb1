package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event           string     `json:"event,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	LastEvent       string     `json:"last_event,omitempty"`
	Primed          bool       `json:"primed"`
	Indicator       string     `json:"indicator"`
	UptimeSeconds   int64      `json:"uptime_seconds"`
	StartTime       string     `json:"start_time"`
	Timestamp       string     `json:"timestamp"`
	BrokerConnected bool       `json:"broker_connected"`
	Counts          CountsJSON `json:"event_counts"`
	Config          ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	RotaryCW   int `json:"rotary_cw"`
	RotaryCCW  int `json:"rotary_ccw"`
	BtnPress   int `json:"btn_press"`
	BtnRelease int `json:"btn_release"`
	BtnNext    int `json:"btn_next"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip        string `json:"chip"`
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker,omitempty"`
	HTTPAddr    string `json:"http_addr,omitempty"`
}

// indicatorString renders the LED state for display.
func indicatorString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// ToJSON converts a snapshot into its JSON representation, optionally
// tagged with a lifecycle event name and reason.
func ToJSON(snap Snapshot, event, reason string) StatusJSON {
	return StatusJSON{
		Status: StatusInner{
			Event:           event,
			Reason:          reason,
			LastEvent:       string(snap.LastEvent),
			Primed:          snap.Primed,
			Indicator:       indicatorString(snap.IndicatorOn),
			UptimeSeconds:   int64(snap.Uptime().Seconds()),
			StartTime:       snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:       snap.Now.UTC().Format(time.RFC3339),
			BrokerConnected: snap.BrokerConnected,
			Counts: CountsJSON{
				RotaryCW:   snap.Counts.CW,
				RotaryCCW:  snap.Counts.CCW,
				BtnPress:   snap.Counts.Press,
				BtnRelease: snap.Counts.Release,
				BtnNext:    snap.Counts.Next,
			},
			Config: ConfigJSON{
				Chip:        snap.Config.Chip,
				PollMs:      snap.Config.PollMs,
				DebounceMs:  snap.Config.DebounceMs,
				HeartbeatMs: snap.Config.HeartbeatMs,
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
			},
		},
	}
}

// FormatStatusEvent serializes a snapshot as the payload for a lifecycle
// telemetry event. Marshal errors cannot occur for this struct shape, so
// the result is always usable.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	b, err := json.Marshal(ToJSON(snap, event, reason))
	if err != nil {
		return []byte(`{"status":{"error":"marshal failure"}}`)
	}
	return b
}
