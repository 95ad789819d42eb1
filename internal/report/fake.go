package report

import "github.com/tvargenta/encoderd/internal/logic"

// FakeReporter records reported events for test assertions.
type FakeReporter struct {
	// Events contains all events that were reported.
	Events []logic.Event

	// ReportError, if set, will be returned by Report.
	ReportError error
}

// NewFakeReporter creates a FakeReporter for testing.
func NewFakeReporter() *FakeReporter {
	return &FakeReporter{}
}

// Report records the event.
func (f *FakeReporter) Report(e logic.Event) error {
	if f.ReportError != nil {
		return f.ReportError
	}
	f.Events = append(f.Events, e)
	return nil
}

// Types returns the recorded event types in order.
func (f *FakeReporter) Types() []logic.EventType {
	out := make([]logic.EventType, len(f.Events))
	for i, e := range f.Events {
		out[i] = e.Type
	}
	return out
}

// Reset clears recorded events.
func (f *FakeReporter) Reset() {
	f.Events = nil
	f.ReportError = nil
}
