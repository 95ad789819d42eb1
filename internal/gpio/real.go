//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDevice drives actual hardware through the Linux GPIO character device.
type RealDevice struct {
	chip *gpiocdev.Chip
	clk  *gpiocdev.Line
	dt   *gpiocdev.Line
	sw   *gpiocdev.Line
	next *gpiocdev.Line
	led  *gpiocdev.Line
}

// Open acquires the input lines and the LED on the given chip.
// The LED is requested as an output with an initial active value, so the
// indicator turns on with the acquisition itself rather than by a separate
// write. On any failure the partially acquired lines are released and an
// error is returned.
func Open(chipName string) (*RealDevice, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("encoderd"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	d := &RealDevice{chip: chip}

	// The rotary contacts are externally biased; only the buttons need
	// internal pull-ups (both are active-low).
	d.clk, err = chip.RequestLine(PinCLK, gpiocdev.AsInput)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request CLK pin %d: %w", PinCLK, err)
	}
	d.dt, err = chip.RequestLine(PinDT, gpiocdev.AsInput)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request DT pin %d: %w", PinDT, err)
	}
	d.sw, err = chip.RequestLine(PinSW, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request SW pin %d: %w", PinSW, err)
	}
	d.next, err = chip.RequestLine(PinNext, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request NEXT pin %d: %w", PinNext, err)
	}

	d.led, err = chip.RequestLine(PinLED, gpiocdev.AsOutput(1))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request LED pin %d: %w", PinLED, err)
	}

	return d, nil
}

// Read returns the logical state of all four input lines.
func (d *RealDevice) Read() (Sample, error) {
	clk, err := d.clk.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read CLK pin: %w", err)
	}
	dt, err := d.dt.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read DT pin: %w", err)
	}
	sw, err := d.sw.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read SW pin: %w", err)
	}
	next, err := d.next.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read NEXT pin: %w", err)
	}

	return Sample{
		CLK:  clk != 0,
		DT:   dt != 0,
		SW:   sw != 0,
		Next: next != 0,
	}, nil
}

// Close turns the LED off, releases the input lines, releases the LED line,
// and closes the chip handle. Each step is skipped if its handle was never
// acquired (or was already released), so Close tolerates partial
// initialization and repeated calls.
func (d *RealDevice) Close() error {
	var errs []error

	if d.led != nil {
		if err := d.led.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("deactivate LED: %w", err))
		}
	}
	for _, l := range []struct {
		name string
		line **gpiocdev.Line
	}{
		{"CLK", &d.clk},
		{"DT", &d.dt},
		{"SW", &d.sw},
		{"NEXT", &d.next},
		{"LED", &d.led},
	} {
		if *l.line == nil {
			continue
		}
		if err := (*l.line).Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s line: %w", l.name, err))
		}
		*l.line = nil
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		d.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
