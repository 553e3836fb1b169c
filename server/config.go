package server

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	defaultAddr            = "127.0.0.1:8080"
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds HTTP listener parameters.
type Config struct {
	Addr            string   `json:"addr,omitempty" yaml:"addr,omitempty" toml:"addr" env:"ADDR"`
	ShutdownTimeout Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty" toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func DefaultConfig() Config {
	return Config{
		Addr:            defaultAddr,
		ShutdownTimeout: Duration(defaultShutdownTimeout),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.ShutdownTimeout > 0 {
		c.ShutdownTimeout = source.ShutdownTimeout
	}
}

// Duration is a time.Duration written as a string such as "2s" or "1m30s"
// in every config format.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts only quoted durations. A bare number has no unit.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string such as \"5s\": %s", data)
	}
	return d.UnmarshalText([]byte(s))
}
