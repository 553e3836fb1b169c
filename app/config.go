package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/roster/server"
	"github.com/tailored-agentic-units/roster/storage"
)

// Build modes. Anything other than EnvProduction attaches the diagnostic
// logger.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

const envPrefix = "ROSTER_"

// Config holds initialization parameters for every subsystem.
type Config struct {
	Env      string         `json:"env,omitempty" yaml:"env,omitempty" toml:"env" env:"ENV"`
	Observer string         `json:"observer,omitempty" yaml:"observer,omitempty" toml:"observer" env:"OBSERVER"`
	Storage  storage.Config `json:"storage" yaml:"storage" toml:"storage" envPrefix:"STORAGE_"`
	Server   server.Config  `json:"server" yaml:"server" toml:"server" envPrefix:"SERVER_"`
}

// DefaultConfig returns a development configuration with in-memory storage
// and slog diagnostics.
func DefaultConfig() Config {
	return Config{
		Env:      EnvDevelopment,
		Observer: "slog",
		Storage:  storage.DefaultConfig(),
		Server:   server.DefaultConfig(),
	}
}

// IsProduction reports whether c selects the production build mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), EnvProduction)
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Storage.Merge(&source.Storage)
	c.Server.Merge(&source.Server)

	if source.Env != "" {
		c.Env = source.Env
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// result. The format follows the extension: .json, .yaml/.yml, or .toml.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		err = json.Unmarshal(data, &loaded)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	case ".toml":
		_, err = toml.Decode(string(data), &loaded)
	default:
		return nil, fmt.Errorf("%w: %q", ErrConfigFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// ParseEnv overlays ROSTER_-prefixed environment variables onto cfg, e.g.
// ROSTER_ENV, ROSTER_STORAGE_BACKEND, ROSTER_SERVER_ADDR. Unset variables
// leave fields untouched.
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
