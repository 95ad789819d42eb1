package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatSystemPayload(t *testing.T) {
	ev := SystemEvent{
		Timestamp: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "terminated",
	}

	b, err := FormatSystemPayload(ev)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var got SystemPayload
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", got.System.Event)
	}
	if got.System.Reason != "terminated" {
		t.Errorf("reason: got %q", got.System.Reason)
	}
	if got.System.Timestamp != "2026-08-01T12:30:00Z" {
		t.Errorf("timestamp: got %q", got.System.Timestamp)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	b, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
	})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["system"]["reason"]; ok {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	b, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(b) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", b)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("unexpected recorded events: %+v", f.SystemEvents)
	}
	if len(f.SystemPayloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.SystemPayloads))
	}

	f.PublishSystemError = errors.New("broker down")
	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected injected error")
	}
	if len(f.SystemEvents) != 1 {
		t.Error("failed publish must not be recorded")
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed to be set")
	}
}
