// Package app wires storage, the store, and its plugins from configuration.
//
//	cfg := app.DefaultConfig()
//	a, err := app.New(&cfg)
//	defer a.Close()
//	err = a.Commit(ctx, mutation.Must(mutation.AddPlayer, player))
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/observability"
	"github.com/tailored-agentic-units/roster/plugins"
	"github.com/tailored-agentic-units/roster/roster"
	"github.com/tailored-agentic-units/roster/storage"
	"github.com/tailored-agentic-units/roster/store"
)

// Option overrides a config-created subsystem. Applied before wiring.
type Option func(*App)

// WithStorage overrides the config-created storage backend. The caller keeps
// ownership; Close does not release it.
func WithStorage(s storage.Store) Option {
	return func(a *App) { a.backend = s }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(a *App) { a.observer = o }
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// App is a configured roster store with its plugins installed.
type App struct {
	cfg      Config
	backend  storage.Store
	closer   io.Closer
	observer observability.Observer
	now      func() time.Time
	store    *store.Store
}

// New builds an App from configuration: it opens storage, restores the
// persisted players, and installs plugins.Defaults for the configured mode.
func New(cfg *Config, opts ...Option) (*App, error) {
	a := &App{cfg: *cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.backend == nil {
		backend, closer, err := storage.NewStore(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		a.backend, a.closer = backend, closer
	}

	if a.observer == nil {
		obs, err := observability.Resolve(cfg.Observer)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		a.observer = obs
	}

	initial, err := plugins.Restore(context.Background(), a.backend)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to restore state: %w", err)
	}

	a.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "app.New",
		Data: map[string]any{
			"env":      a.cfg.Env,
			"backend":  a.cfg.Storage.Backend,
			"players":  len(initial.Players),
			"logger":   !a.cfg.IsProduction(),
			"observer": a.cfg.Observer,
		},
	})

	a.store = store.New(initial, store.WithObserver(a.observer), store.WithClock(a.now))
	if err := a.store.Use(plugins.Defaults(a.cfg.IsProduction(), a.backend, a.observer)...); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Commit forwards to the underlying store.
func (a *App) Commit(ctx context.Context, m mutation.Mutation) error {
	return a.store.Commit(ctx, m)
}

// State returns a copy of the current state.
func (a *App) State() roster.State {
	return a.store.State()
}

// Store exposes the underlying store for additional subscribers.
func (a *App) Store() *store.Store {
	return a.store
}

// Config returns the effective configuration.
func (a *App) Config() Config {
	return a.cfg
}

// Close releases the storage backend if New opened it.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	if err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
