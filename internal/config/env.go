package config

import "os"

// ApplyEnv applies configuration from ENCODERD_* environment variables.
// It respects flags that have been explicitly set (changed map).
// Returns an error if any variable has an invalid format.
func ApplyEnv(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("chip", os.Getenv("ENCODERD_CHIP"), &cfg.Chip)
	s.setString("broker", os.Getenv("ENCODERD_BROKER"), &cfg.Broker)
	s.setString("http", os.Getenv("ENCODERD_HTTP_ADDR"), &cfg.HTTPAddr)
	s.setString("log-level", os.Getenv("ENCODERD_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("poll", os.Getenv("ENCODERD_POLL"), &cfg.Poll); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("ENCODERD_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("heartbeat", os.Getenv("ENCODERD_HEARTBEAT"), &cfg.Heartbeat); err != nil {
		return err
	}
	return nil
}
