// Package config holds the daemon configuration and its layering:
// defaults, then a TOML config file, then ENCODERD_* environment
// variables, then explicit command-line flags. Later layers win, and a
// flag the user set on the command line is never overridden.
//
// Pin mapping is deliberately not configurable; the pins live as
// constants next to the hardware code they describe.
package config

import (
	"fmt"
	"time"
)

// Config holds the runtime configuration for encoderd.
type Config struct {
	// Chip is the GPIO character device name.
	Chip string

	// Poll is the sampling interval of the main loop.
	Poll time.Duration

	// Debounce is the minimum spacing between emitted NEXT events,
	// measured from the last emitted event.
	Debounce time.Duration

	// Heartbeat is the telemetry heartbeat interval (0 disables).
	Heartbeat time.Duration

	// Broker is the MQTT broker URL for lifecycle telemetry
	// (empty disables telemetry).
	Broker string

	// HTTPAddr is the status page listen address (empty disables).
	HTTPAddr string

	// LogLevel is the zerolog level name (trace..panic).
	LogLevel string
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Chip:      "gpiochip0",
		Poll:      3 * time.Millisecond,
		Debounce:  time.Second,
		Heartbeat: 15 * time.Minute,
		Broker:    "",
		HTTPAddr:  "",
		LogLevel:  "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Chip == "" {
		return fmt.Errorf("chip is required")
	}
	if c.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative")
	}
	return nil
}

// configSetter applies configuration values while respecting flag
// precedence: a value is only applied if the corresponding flag was not
// explicitly set on the command line.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if non-empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration if non-empty and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", flag, err)
	}
	*dst = d
	return nil
}
