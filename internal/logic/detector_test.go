package logic

import (
	"testing"
	"time"
)

func TestNewDetector(t *testing.T) {
	startTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d := NewDetector(time.Second, startTime)
	if d == nil {
		t.Fatal("NewDetector returned nil")
	}
	if d.debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", d.debounce)
	}
	if d.Primed() {
		t.Error("new detector should not be primed")
	}
	if !d.startTime.Equal(startTime) {
		t.Errorf("expected startTime %v, got %v", startTime, d.startTime)
	}
	if !d.lastHeartbeat.Equal(startTime) {
		t.Errorf("expected lastHeartbeat %v, got %v", startTime, d.lastHeartbeat)
	}
}

// primedDetector returns a detector whose history has been primed with the
// given line states. Priming itself must emit nothing.
func primedDetector(t *testing.T, clk, dt, sw, next bool) *Detector {
	t.Helper()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d := NewDetector(time.Second, start)
	events := d.Process(Input{CLK: clk, DT: dt, SW: sw, Next: next, Time: start})
	if len(events) != 0 {
		t.Fatalf("priming sample emitted %d events", len(events))
	}
	if !d.Primed() {
		t.Fatal("detector not primed after first sample")
	}
	return d
}

func at(seconds float64) time.Time {
	start := time.Date(2026, 8, 1, 12, 0, 0, 1, time.UTC)
	return start.Add(time.Duration(seconds * float64(time.Second)))
}

func TestRotationFallingEdgeCW(t *testing.T) {
	// CLK falls while DT is still active: DT differs from the new CLK value,
	// which is the clockwise wiring convention.
	d := primedDetector(t, true, true, true, true)

	events := d.Process(Input{CLK: false, DT: true, SW: true, Next: true, Time: at(0)})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventRotaryCW {
		t.Errorf("expected ROTARY_CW, got %s", events[0].Type)
	}
	if !events[0].Timestamp.Equal(at(0)) {
		t.Errorf("unexpected timestamp: %v", events[0].Timestamp)
	}
}

func TestRotationFallingEdgeCCW(t *testing.T) {
	// CLK falls with DT already inactive: DT equals the new CLK value.
	d := primedDetector(t, true, false, true, true)

	events := d.Process(Input{CLK: false, DT: false, SW: true, Next: true, Time: at(0)})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventRotaryCCW {
		t.Errorf("expected ROTARY_CCW, got %s", events[0].Type)
	}
}

func TestRotationRisingEdgeEmitsNothing(t *testing.T) {
	d := primedDetector(t, false, true, true, true)

	events := d.Process(Input{CLK: true, DT: true, SW: true, Next: true, Time: at(0)})
	if len(events) != 0 {
		t.Errorf("rising CLK edge should emit no events, got %d", len(events))
	}
}

func TestRotationOneEventPerFullCycle(t *testing.T) {
	// A full CLK cycle (fall, rise, fall) emits exactly one event per fall.
	d := primedDetector(t, true, true, true, true)

	total := 0
	for i, clk := range []bool{false, true, false} {
		events := d.Process(Input{CLK: clk, DT: true, SW: true, Next: true, Time: at(float64(i))})
		total += len(events)
	}
	if total != 2 {
		t.Errorf("expected 2 events for two falling edges, got %d", total)
	}
}

func TestRotationStableCLKEmitsNothing(t *testing.T) {
	d := primedDetector(t, true, true, true, true)

	// DT wiggles freely; with CLK stable nothing may fire.
	for i := 0; i < 10; i++ {
		events := d.Process(Input{CLK: true, DT: i%2 == 0, SW: true, Next: true, Time: at(float64(i))})
		if len(events) != 0 {
			t.Errorf("iteration %d: stable CLK emitted %d events", i, len(events))
		}
	}
}

func TestPressReleaseAlternation(t *testing.T) {
	// SW edges active→inactive, inactive→active, active→inactive must emit
	// exactly PRESS, RELEASE, PRESS.
	d := primedDetector(t, true, true, true, true)

	var got []EventType
	for i, sw := range []bool{false, true, false} {
		for _, e := range d.Process(Input{CLK: true, DT: true, SW: sw, Next: true, Time: at(float64(i))}) {
			got = append(got, e.Type)
		}
	}

	want := []EventType{EventBtnPress, EventBtnRelease, EventBtnPress}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestRepeatedPressedSamplesEmitOnce(t *testing.T) {
	d := primedDetector(t, true, true, true, true)

	presses := 0
	for i := 0; i < 5; i++ {
		for _, e := range d.Process(Input{CLK: true, DT: true, SW: false, Next: true, Time: at(float64(i))}) {
			if e.Type == EventBtnPress {
				presses++
			}
		}
	}
	if presses != 1 {
		t.Errorf("expected exactly 1 PRESS for held button, got %d", presses)
	}
}

func TestReleaseWithoutPressSuppressed(t *testing.T) {
	// Primed with the button already inactive (mid-press at startup): the
	// rising edge must not emit RELEASE because no PRESS was ever emitted.
	d := primedDetector(t, true, true, false, true)

	events := d.Process(Input{CLK: true, DT: true, SW: true, Next: true, Time: at(0)})
	if len(events) != 0 {
		t.Errorf("expected no events for release-without-press, got %v", events)
	}

	// A subsequent genuine press still works.
	events = d.Process(Input{CLK: true, DT: true, SW: false, Next: true, Time: at(1)})
	if len(events) != 1 || events[0].Type != EventBtnPress {
		t.Errorf("expected BTN_PRESS, got %v", events)
	}
}

// nextEdge drives a full NEXT press (falling edge at the given time, rising
// edge shortly after) and returns the number of BTN_NEXT events emitted.
func nextEdge(d *Detector, when time.Time) int {
	n := 0
	for _, e := range d.Process(Input{CLK: true, DT: true, SW: true, Next: false, Time: when}) {
		if e.Type == EventBtnNext {
			n++
		}
	}
	for _, e := range d.Process(Input{CLK: true, DT: true, SW: true, Next: true, Time: when.Add(10 * time.Millisecond)}) {
		if e.Type == EventBtnNext {
			n++
		}
	}
	return n
}

func TestNextDebounceWindow(t *testing.T) {
	// Edges at t=0.0 and t=0.5 with a 1.0s window: only the first emits.
	// A further edge at t=1.2 emits a second event.
	d := primedDetector(t, true, true, true, true)

	if n := nextEdge(d, at(0.0)); n != 1 {
		t.Errorf("edge at t=0.0: expected 1 event, got %d", n)
	}
	if n := nextEdge(d, at(0.5)); n != 0 {
		t.Errorf("edge at t=0.5: expected suppression, got %d events", n)
	}
	if n := nextEdge(d, at(1.2)); n != 1 {
		t.Errorf("edge at t=1.2: expected 1 event, got %d", n)
	}
}

func TestNextSuppressionKeepsLastFireTime(t *testing.T) {
	// A suppressed edge must not reset the debounce timer: after emission at
	// t=0.0 and suppression at t=0.9, the edge at t=1.0 is measured against
	// t=0.0 and therefore emits.
	d := primedDetector(t, true, true, true, true)

	if n := nextEdge(d, at(0.0)); n != 1 {
		t.Fatalf("edge at t=0.0: expected 1 event, got %d", n)
	}
	if n := nextEdge(d, at(0.9)); n != 0 {
		t.Fatalf("edge at t=0.9: expected suppression, got %d events", n)
	}
	if n := nextEdge(d, at(1.0)); n != 1 {
		t.Errorf("edge at t=1.0: expected 1 event (timer anchored at t=0.0), got %d", n)
	}
}

func TestProcessSignalOrder(t *testing.T) {
	// When one sample carries a CLK fall, an SW press, and a NEXT press,
	// events come out in signal order: rotation, encoder button, auxiliary.
	d := primedDetector(t, true, true, true, true)

	events := d.Process(Input{CLK: false, DT: true, SW: false, Next: false, Time: at(0)})
	want := []EventType{EventRotaryCW, EventBtnPress, EventBtnNext}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i := range want {
		if events[i].Type != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], events[i].Type)
		}
	}
}

func TestCounts(t *testing.T) {
	d := primedDetector(t, true, true, true, true)

	d.Process(Input{CLK: false, DT: true, SW: true, Next: true, Time: at(0)}) // CW
	d.Process(Input{CLK: true, DT: true, SW: false, Next: true, Time: at(1)}) // PRESS
	d.Process(Input{CLK: true, DT: true, SW: true, Next: true, Time: at(2)})  // RELEASE
	nextEdge(d, at(3))                                                        // NEXT

	counts := d.Counts()
	if counts.CW != 1 || counts.CCW != 0 || counts.Press != 1 || counts.Release != 1 || counts.Next != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestCheckHeartbeat(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d := NewDetector(time.Second, start)

	// Not primed yet.
	if hb := d.CheckHeartbeat(start.Add(time.Hour), time.Minute); hb != nil {
		t.Error("expected nil heartbeat before priming")
	}

	d.Process(Input{CLK: true, DT: true, SW: true, Next: true, Time: start})

	// Disabled interval.
	if hb := d.CheckHeartbeat(start.Add(time.Hour), 0); hb != nil {
		t.Error("expected nil heartbeat when disabled")
	}

	// Interval not yet elapsed.
	if hb := d.CheckHeartbeat(start.Add(30*time.Second), time.Minute); hb != nil {
		t.Error("expected nil heartbeat before interval elapses")
	}

	hb := d.CheckHeartbeat(start.Add(90*time.Second), time.Minute)
	if hb == nil {
		t.Fatal("expected heartbeat after interval")
	}
	if hb.Uptime != 90*time.Second {
		t.Errorf("expected uptime 90s, got %v", hb.Uptime)
	}

	// Timer re-arms from the emitted heartbeat.
	if hb := d.CheckHeartbeat(start.Add(120*time.Second), time.Minute); hb != nil {
		t.Error("expected nil heartbeat 30s after previous one")
	}
	if hb := d.CheckHeartbeat(start.Add(150*time.Second), time.Minute); hb == nil {
		t.Error("expected heartbeat 60s after previous one")
	}
}
