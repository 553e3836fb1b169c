package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/roster/storage"
)

func TestDefaultConfig(t *testing.T) {
	cfg := storage.DefaultConfig()
	if cfg.Backend != storage.BackendMemory {
		t.Errorf("got Backend %q, want %q", cfg.Backend, storage.BackendMemory)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := storage.DefaultConfig()
	cfg.Merge(&storage.Config{Backend: storage.BackendFile, Path: "/data"})

	if cfg.Backend != storage.BackendFile || cfg.Path != "/data" {
		t.Errorf("got %+v", cfg)
	}

	cfg.Merge(&storage.Config{})
	if cfg.Backend != storage.BackendFile || cfg.Path != "/data" {
		t.Errorf("empty merge changed config: %+v", cfg)
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr error
		anyErr  bool
	}{
		{name: "memory", cfg: storage.Config{Backend: storage.BackendMemory}},
		{name: "empty backend", cfg: storage.Config{}},
		{name: "file", cfg: storage.Config{Backend: storage.BackendFile, Path: dir}},
		{name: "file without path", cfg: storage.Config{Backend: storage.BackendFile}, anyErr: true},
		{name: "sqlite", cfg: storage.Config{Backend: storage.BackendSQLite, Path: filepath.Join(dir, "r.db")}},
		{name: "sqlite without path", cfg: storage.Config{Backend: storage.BackendSQLite}, anyErr: true},
		{name: "unknown", cfg: storage.Config{Backend: "redis"}, wantErr: storage.ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closer, err := storage.NewStore(&tt.cfg)
			if tt.wantErr != nil || tt.anyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("NewStore() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if s == nil || closer == nil {
				t.Fatal("NewStore() returned nil store or closer")
			}
			if err := closer.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}
