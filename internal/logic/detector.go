package logic

import "time"

// Detector turns per-cycle line samples into encoder and button events.
// The first sample primes the signal history and emits nothing; after that
// every Process call compares the new sample against the previous one.
// A single instance is driven synchronously from the poll loop.
type Detector struct {
	debounce time.Duration

	primed   bool
	lastCLK  bool
	lastSW   bool
	lastNext bool

	// PRESS/RELEASE alternation flags for the encoder's integrated button.
	// Updated at the moment of emission so repeated identical samples can
	// never produce two PRESS (or two RELEASE) in a row.
	pressed  bool
	released bool

	// Timestamp of the last *emitted* NEXT event. Suppressed edges leave it
	// untouched, so later edges are still measured against the original
	// emission time.
	lastNextFire time.Time

	counts        EventCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewDetector creates a detector with the given NEXT-button debounce window.
// startTime anchors uptime reporting for heartbeats.
func NewDetector(debounce time.Duration, startTime time.Time) *Detector {
	return &Detector{
		debounce:      debounce,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process consumes one sample and returns zero or more events, in signal
// order: rotation, encoder button, auxiliary button.
func (d *Detector) Process(in Input) []Event {
	if !d.primed {
		d.lastCLK = in.CLK
		d.lastSW = in.SW
		d.lastNext = in.Next
		d.primed = true
		return nil
	}

	var events []Event

	// Rotation fires on the CLK falling edge only; the rising edge of the
	// same detent is ignored, halving resolution in exchange for
	// debounce-free operation. The DT comparison encodes the physical
	// wiring convention — do not "simplify" it from quadrature theory.
	if in.CLK != d.lastCLK {
		if !in.CLK {
			if in.DT != in.CLK {
				events = append(events, Event{Timestamp: in.Time, Type: EventRotaryCW})
			} else {
				events = append(events, Event{Timestamp: in.Time, Type: EventRotaryCCW})
			}
		}
		d.lastCLK = in.CLK
	}

	// Encoder push button: active-low, so pressing pulls the line inactive.
	if in.SW != d.lastSW {
		if !in.SW && !d.pressed {
			events = append(events, Event{Timestamp: in.Time, Type: EventBtnPress})
			d.pressed = true
			d.released = false
		} else if in.SW && !d.released && d.pressed {
			events = append(events, Event{Timestamp: in.Time, Type: EventBtnRelease})
			d.pressed = false
			d.released = true
		}
		d.lastSW = in.SW
	}

	// Auxiliary NEXT button: every falling edge is detected, but emission is
	// gated by the debounce window measured from the last emitted event.
	// The read-and-compare happens before any timestamp update.
	if in.Next != d.lastNext {
		if !in.Next {
			if d.lastNextFire.IsZero() || in.Time.Sub(d.lastNextFire) >= d.debounce {
				events = append(events, Event{Timestamp: in.Time, Type: EventBtnNext})
				d.lastNextFire = in.Time
			}
		}
		d.lastNext = in.Next
	}

	for _, e := range events {
		switch e.Type {
		case EventRotaryCW:
			d.counts.CW++
		case EventRotaryCCW:
			d.counts.CCW++
		case EventBtnPress:
			d.counts.Press++
		case EventBtnRelease:
			d.counts.Release++
		case EventBtnNext:
			d.counts.Next++
		}
	}

	return events
}

// Primed reports whether the detector has seen its first sample.
func (d *Detector) Primed() bool {
	return d.primed
}

// Counts returns a snapshot of per-event counters since startup.
func (d *Detector) Counts() EventCounts {
	return d.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil before priming, before the
// interval elapses, or when interval <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if !d.primed {
		return nil
	}
	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.counts,
	}
}
