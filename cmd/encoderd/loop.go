package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tvargenta/encoderd/internal/gpio"
	"github.com/tvargenta/encoderd/internal/logic"
	"github.com/tvargenta/encoderd/internal/report"
	"github.com/tvargenta/encoderd/internal/status"
	"github.com/tvargenta/encoderd/internal/telemetry"
)

// stopFlag is the one-way stop latch shared between the signal goroutine and
// the poll loop. Once triggered it never resets. The reason is stored before
// the flag flips, so a reader that observes the flag also sees the reason.
type stopFlag struct {
	stopped atomic.Bool
	reason  atomic.Value // string
}

// Trigger requests a stop. Only the first call records a reason.
func (f *stopFlag) Trigger(reason string) {
	if f.stopped.Load() {
		return
	}
	f.reason.Store(reason)
	f.stopped.Store(true)
}

// Stopped reports whether a stop was requested.
func (f *stopFlag) Stopped() bool {
	return f.stopped.Load()
}

// Reason returns the recorded stop reason, if any.
func (f *stopFlag) Reason() string {
	r, _ := f.reason.Load().(string)
	return r
}

// runLoop samples the lines once per tick, reports detected events, and
// exits when the stop latch is set or a read fails. pub and conn may be nil
// (telemetry disabled). All detector and reporter state is owned by this
// goroutine; the tick channel is the only suspension point.
func runLoop(dev gpio.Device, rep report.Reporter, pub telemetry.Publisher, conn telemetry.ConnectionStatus, tracker *status.Tracker, debounce, heartbeat time.Duration, log zerolog.Logger, now func() time.Time, tick <-chan time.Time, stop *stopFlag) error {
	det := logic.NewDetector(debounce, now())

	for range tick {
		if stop.Stopped() {
			reason := stop.Reason()
			log.Info().Str("reason", reason).Msg("shutting down")
			tracker.SetIndicator(false)
			publishLifecycle(pub, tracker, "SHUTDOWN", reason, now(), log)
			return nil
		}

		t := now()
		sample, err := dev.Read()
		if err != nil {
			// A failed read means the device is no longer reliably
			// readable. No retry: shut down through the normal path.
			log.Error().Err(err).Msg("line read failed")
			tracker.SetIndicator(false)
			publishLifecycle(pub, tracker, "SHUTDOWN", "READ_FAULT", t, log)
			return fmt.Errorf("read lines: %w", err)
		}

		events := det.Process(logic.Input{
			CLK:  sample.CLK,
			DT:   sample.DT,
			SW:   sample.SW,
			Next: sample.Next,
			Time: t,
		})

		var last logic.EventType
		for _, e := range events {
			log.Debug().Str("event", string(e.Type)).Msg("event")
			if err := rep.Report(e); err != nil {
				// The consumer reads us over a pipe; a write failure
				// means it is gone and there is no one left to feed.
				log.Error().Err(err).Msg("event write failed")
				tracker.SetIndicator(false)
				publishLifecycle(pub, tracker, "SHUTDOWN", "WRITE_FAULT", t, log)
				return fmt.Errorf("report event: %w", err)
			}
			last = e.Type
		}

		tracker.Update(last, det.Counts(), det.Primed())
		if conn != nil {
			tracker.SetBrokerConnected(conn.IsConnected())
		}

		if hb := det.CheckHeartbeat(t, heartbeat); hb != nil {
			log.Debug().Dur("uptime", hb.Uptime).Msg("heartbeat")
			publishLifecycle(pub, tracker, "HEARTBEAT", "", hb.Timestamp, log)
		}
	}
	return nil
}

// publishLifecycle sends a lifecycle event with a full status snapshot
// attached. Telemetry is best-effort: failures are logged, never fatal.
func publishLifecycle(pub telemetry.Publisher, tracker *status.Tracker, event, reason string, t time.Time, log zerolog.Logger) {
	if pub == nil {
		return
	}
	ev := telemetry.SystemEvent{
		Timestamp: t,
		Event:     event,
		Reason:    reason,
		Retained:  event != "HEARTBEAT",
	}
	if tracker != nil {
		ev.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), event, reason)
	}
	if err := pub.PublishSystem(ev); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("telemetry publish failed")
	}
}
