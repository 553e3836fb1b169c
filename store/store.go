// Package store holds the roster State and serializes transitions through
// Commit. Subscribers observe every committed transition synchronously, in
// registration order, after the new state is in place.
//
//	s := store.New(roster.NewState())
//	unsubscribe := s.Subscribe(func(ctx context.Context, m mutation.Mutation, st roster.State) error {
//		return nil
//	})
//	err := s.Commit(ctx, mutation.Must(mutation.AddPlayer, player))
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/observability"
	"github.com/tailored-agentic-units/roster/roster"
)

// Subscriber is invoked after each committed transition with the mutation
// and the post-transition state. The state is a private copy.
// Subscribers must not call Commit on the same store.
type Subscriber func(ctx context.Context, m mutation.Mutation, s roster.State) error

// Plugin installs itself on a store, typically by subscribing.
type Plugin func(s *Store) error

// Option configures a Store.
type Option func(*Store)

// WithObserver sets the observer for store lifecycle events.
func WithObserver(o observability.Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the time source used to stamp new players.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type subscription struct {
	id uint64
	fn Subscriber
}

// Store owns the current roster State.
type Store struct {
	commitMu sync.Mutex // held for apply + notify so subscribers see commits in order
	mu       sync.RWMutex
	state    roster.State
	subs     []subscription
	nextID   uint64
	observer observability.Observer
	now      func() time.Time
}

// New creates a Store seeded with a copy of initial.
func New(initial roster.State, opts ...Option) *Store {
	s := &Store{
		state:    initial.Clone(),
		observer: observability.NoOpObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use installs plugins in order, stopping at the first failure.
func (s *Store) Use(plugins ...Plugin) error {
	for i, p := range plugins {
		if p == nil {
			continue
		}
		if err := p(s); err != nil {
			return fmt.Errorf("%w: plugin %d: %w", ErrPlugin, i, err)
		}
	}
	return nil
}

// Subscribe registers fn and returns a function that removes it. Removal is
// idempotent.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// State returns a copy of the current state.
func (s *Store) State() roster.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Commit applies m to the current state. When the reducer rejects m the state
// is unchanged, no subscriber runs, and the reducer error is returned. On
// success every subscriber runs exactly once; their failures are joined and
// returned wrapped in ErrSubscriber, and the new state stays committed.
func (s *Store) Commit(ctx context.Context, m mutation.Mutation) error {
	if !m.Type.Valid() {
		return fmt.Errorf("%w: %q", mutation.ErrUnknownType, string(m.Type))
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.RLock()
	next := s.state.Clone()
	s.mu.RUnlock()

	if err := roster.Apply(&next, m, s.now()); err != nil {
		s.observer.OnEvent(ctx, observability.Event{
			Type:      EventCommitRejected,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "store.Commit",
			Data:      map[string]any{"mutation": string(m.Type), "error": err.Error()},
		})
		return err
	}

	s.mu.Lock()
	s.state = next
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventCommit,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "store.Commit",
		Data: map[string]any{
			"mutation":    string(m.Type),
			"players":     len(next.Players),
			"subscribers": len(subs),
		},
	})

	var errs []error
	for _, sub := range subs {
		if err := sub.fn(ctx, m, next.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		s.observer.OnEvent(ctx, observability.Event{
			Type:      EventSubscriberError,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    "store.Commit",
			Data:      map[string]any{"mutation": string(m.Type), "error": err.Error()},
		})
		return fmt.Errorf("%w: %s: %w", ErrSubscriber, m.Type, err)
	}
	return nil
}
