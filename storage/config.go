package storage

import (
	"fmt"
	"io"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds storage initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty" toml:"backend" env:"BACKEND"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty" toml:"path" env:"PATH"` // directory for file, database path for sqlite
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration. The returned io.Closer
// releases backend resources and is never nil.
func NewStore(cfg *Config) (Store, io.Closer, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("file backend: path is required")
		}
		return NewFileStore(cfg.Path), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
