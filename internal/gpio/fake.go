package gpio

import "errors"

// FakeDevice is a test double that returns scripted line samples.
// A freshly constructed fake models a successful acquisition, so its
// indicator starts active.
type FakeDevice struct {
	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples.
	index int

	// Reads counts how many times Read was called.
	Reads int

	// IndicatorOn mirrors the LED state: true from construction
	// ("acquisition") until the first Close.
	IndicatorOn bool

	// Closed tracks if Close was called; CloseCount how many times.
	Closed     bool
	CloseCount int

	// ReadError, if set, will be returned by Read().
	ReadError error

	// ReleaseError, if set, is returned by Close() — but only after the
	// indicator has been deactivated, mirroring the real release order.
	ReleaseError error
}

// NewFakeDevice creates a FakeDevice with the given samples.
func NewFakeDevice(samples []Sample) *FakeDevice {
	return &FakeDevice{Samples: samples, IndicatorOn: true}
}

// Read returns the next scripted sample.
// If samples are exhausted, it returns the last sample repeatedly.
func (f *FakeDevice) Read() (Sample, error) {
	f.Reads++

	if f.ReadError != nil {
		return Sample{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close deactivates the indicator first, then marks the device released.
// Safe to call more than once.
func (f *FakeDevice) Close() error {
	f.IndicatorOn = false
	f.Closed = true
	f.CloseCount++
	return f.ReleaseError
}

// Reset rewinds the fake to a freshly acquired state.
func (f *FakeDevice) Reset() {
	f.index = 0
	f.Reads = 0
	f.IndicatorOn = true
	f.Closed = false
	f.CloseCount = 0
}
