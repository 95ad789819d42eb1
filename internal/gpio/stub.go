//go:build !linux

package gpio

import "errors"

// RealDevice is not available on non-Linux platforms.
type RealDevice struct{}

// Open returns an error on non-Linux platforms.
func Open(chipName string) (*RealDevice, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (d *RealDevice) Read() (Sample, error) {
	return Sample{}, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDevice) Close() error {
	return nil
}
