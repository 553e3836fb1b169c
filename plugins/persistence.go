// Package plugins provides the store plugins: a persistence subscriber that
// writes the players snapshot to a key-value backend after every transition,
// and a diagnostic logger attached outside production.
package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/roster"
	"github.com/tailored-agentic-units/roster/storage"
	"github.com/tailored-agentic-units/roster/store"
)

// StorageKey is the single key the persisted snapshot lives under.
const StorageKey = "roster-state"

// Snapshot is the persisted shape: {"players": {...}}.
type Snapshot struct {
	Players roster.Players `json:"players"`
}

// Encode serializes the players of s as a Snapshot.
func Encode(s roster.State) ([]byte, error) {
	players := s.Players
	if players == nil {
		players = roster.Players{}
	}
	data, err := json.Marshal(Snapshot{Players: players})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return data, nil
}

// Persistence returns a plugin that, after every committed transition
// regardless of type, overwrites StorageKey in backend with the encoded
// players. Write failures are returned to the committer unchanged.
func Persistence(backend storage.Store) store.Plugin {
	return func(s *store.Store) error {
		if backend == nil {
			return ErrNilBackend
		}
		s.Subscribe(func(ctx context.Context, _ mutation.Mutation, st roster.State) error {
			data, err := Encode(st)
			if err != nil {
				return err
			}
			return backend.Save(ctx, storage.Entry{Key: StorageKey, Value: data})
		})
		return nil
	}
}

// Restore reads the persisted snapshot back into a fresh State. A missing
// key yields an empty State.
func Restore(ctx context.Context, backend storage.Store) (roster.State, error) {
	entries, err := backend.Load(ctx, StorageKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return roster.NewState(), nil
	}
	if err != nil {
		return roster.State{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(entries[0].Value, &snap); err != nil {
		return roster.State{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	st := roster.NewState()
	for id, p := range snap.Players {
		if p.Identity.UUID == "" {
			p.Identity.UUID = id
		}
		st.Players[id] = p
	}
	return st, nil
}
