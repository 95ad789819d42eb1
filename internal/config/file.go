package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to keep the
// TOML friendly.
type FileConfig struct {
	Chip      string `toml:"chip"`
	Poll      string `toml:"poll"`
	Debounce  string `toml:"debounce"`
	Heartbeat string `toml:"heartbeat"`
	Broker    string `toml:"broker"`
	HTTPAddr  string `toml:"http_addr"`
	LogLevel  string `toml:"log_level"`
}

// LoadFile reads and parses a TOML config file from the given path.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultPath returns the default configuration file path,
// ~/.encoderd/config.toml, or "" if the home directory is unknown.
func DefaultPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".encoderd", "config.toml")
	}
	return ""
}

// ApplyFile applies file values to cfg, respecting explicitly set flags.
func ApplyFile(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("chip", fc.Chip, &cfg.Chip)
	s.setString("broker", fc.Broker, &cfg.Broker)
	s.setString("http", fc.HTTPAddr, &cfg.HTTPAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("poll", fc.Poll, &cfg.Poll); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("heartbeat", fc.Heartbeat, &cfg.Heartbeat); err != nil {
		return err
	}
	return nil
}
