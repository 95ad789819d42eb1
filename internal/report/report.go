// Package report serializes detected events for the downstream consumer.
// The wire protocol is one event token per line, newline-terminated, drawn
// from the logic package's vocabulary. Consumers must treat unrecognized
// tokens as no-ops.
package report

import (
	"fmt"
	"io"

	"github.com/tvargenta/encoderd/internal/logic"
)

// Reporter emits detected events to a consumer.
type Reporter interface {
	// Report emits one event. It must not buffer across poll cycles so
	// the consumer observes events with minimal added latency.
	Report(e logic.Event) error
}

// StreamReporter writes one newline-terminated token per event to an
// io.Writer. Each Report is a single unbuffered write; with os.Stdout as
// the writer the token is visible to the consumer immediately.
type StreamReporter struct {
	w io.Writer
}

// NewStreamReporter creates a reporter writing to w.
func NewStreamReporter(w io.Writer) *StreamReporter {
	return &StreamReporter{w: w}
}

// Report writes the event token followed by a newline.
func (r *StreamReporter) Report(e logic.Event) error {
	if _, err := fmt.Fprintf(r.w, "%s\n", e.Type); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
