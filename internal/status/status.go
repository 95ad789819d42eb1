// Package status provides a thread-safe status tracker for the encoderd
// daemon. It is read by the HTTP status handlers and by the telemetry
// snapshots attached to lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/tvargenta/encoderd/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Chip        string
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	LastEvent       logic.EventType
	Counts          logic.EventCounts
	Primed          bool
	IndicatorOn     bool
	BrokerConnected bool
	StartTime       time.Time
	Now             time.Time
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the detector view: last emitted event (empty if none this
// cycle), counters, and priming state. Called from the poll loop.
func (t *Tracker) Update(last logic.EventType, counts logic.EventCounts, primed bool) {
	t.mu.Lock()
	if last != "" {
		t.snap.LastEvent = last
	}
	t.snap.Counts = counts
	t.snap.Primed = primed
	t.mu.Unlock()
}

// SetIndicator records the liveness indicator state.
func (t *Tracker) SetIndicator(on bool) {
	t.mu.Lock()
	t.snap.IndicatorOn = on
	t.mu.Unlock()
}

// SetBrokerConnected records the telemetry connection state.
func (t *Tracker) SetBrokerConnected(connected bool) {
	t.mu.Lock()
	t.snap.BrokerConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
