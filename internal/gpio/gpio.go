// Package gpio provisions and samples the encoder's GPIO lines, with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device; the fake implementation allows testing without hardware.
//
// The status LED is owned by the same device handle: it goes active as part
// of a successful acquisition and inactive as the first step of Close, so
// the LED mirrors process liveness from the consumer's perspective.
package gpio

// BCM pin assignments. The wiring is fixed; the CW/CCW labels emitted by the
// detector encode this exact layout.
const (
	PinNext = 3  // auxiliary "next" button, active-low with pull-up
	PinDT   = 17 // rotary data
	PinCLK  = 23 // rotary clock
	PinSW   = 27 // encoder push button, active-low with pull-up
	PinLED  = 25 // liveness indicator
)

// DefaultChip is the GPIO character device the lines live on.
const DefaultChip = "gpiochip0"

// Sample is one poll-cycle snapshot of the input lines.
// Values are logical line states: true = active.
type Sample struct {
	CLK  bool
	DT   bool
	SW   bool
	Next bool
}

// Device reads the encoder input lines and owns the liveness LED.
type Device interface {
	// Read returns the current state of all four input lines.
	// A read failure indicates the hardware is no longer reliably
	// readable; callers treat it as fatal.
	Read() (Sample, error)

	// Close deactivates the LED and releases all lines, in order:
	// LED off, input lines, LED line, chip handle. Every step is a
	// guarded no-op if its handle was never acquired, and calling
	// Close again is safe.
	Close() error
}
