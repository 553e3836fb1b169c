// Package mutation defines the closed set of state transitions a roster store
// accepts. Every commit is tagged with one of the Type constants declared here;
// names outside the set are rejected at construction time.
package mutation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type names a kind of state transition. The string value equals the
// constant name.
type Type string

const (
	AddTeams             Type = "ADD_TEAMS"
	AddPlayer            Type = "ADD_PLAYER"
	AddReserve           Type = "ADD_RESERVE"
	AddPlayers           Type = "ADD_PLAYERS"
	ClearTeams           Type = "CLEAR_TEAMS"
	EditPlayer           Type = "EDIT_PLAYER"
	UpdateStats          Type = "UPDATE_STATS"
	DeletePlayer         Type = "DELETE_PLAYER"
	ClearSquires         Type = "CLEAR_SQUIRES"
	ImportPlayers        Type = "IMPORT_PLAYERS"
	DeletePlayers        Type = "DELETE_PLAYERS"
	AssignSquires        Type = "ASSIGN_SQUIRES"
	ClearCaptains        Type = "CLEAR_CAPTAINS"
	AssignCaptains       Type = "ASSIGN_CAPTAINS"
	ClearAllExtra        Type = "CLEAR_ALL_EXTRA"
	ReservePlayers       Type = "RESERVE_PLAYERS"
	ClearEditPlayer      Type = "CLEAR_EDIT_PLAYER"
	ImportPlayersOld     Type = "IMPORT_PLAYERS_OLD"
	RemoveReservedPlayer Type = "REMOVE_RESERVED_PLAYER"
)

var types = []Type{
	AddTeams,
	AddPlayer,
	AddReserve,
	AddPlayers,
	ClearTeams,
	EditPlayer,
	UpdateStats,
	DeletePlayer,
	ClearSquires,
	ImportPlayers,
	DeletePlayers,
	AssignSquires,
	ClearCaptains,
	AssignCaptains,
	ClearAllExtra,
	ReservePlayers,
	ClearEditPlayer,
	ImportPlayersOld,
	RemoveReservedPlayer,
}

var known = func() map[Type]bool {
	m := make(map[Type]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}()

// All returns every declared Type in declaration order.
func All() []Type {
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

// Valid reports whether t is a member of the declared set.
func (t Type) Valid() bool {
	return known[t]
}

func (t Type) String() string {
	return string(t)
}

// Parse converts a raw name to a Type. Returns ErrUnknownType for names
// outside the declared set.
func Parse(name string) (Type, error) {
	t := Type(name)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// Mutation describes a single transition handed to subscribers after commit.
// Payload is the JSON encoding of the reducer argument and may be empty for
// transitions that take none.
type Mutation struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// New builds a Mutation of type t, JSON-encoding payload when it is non-nil.
// A json.RawMessage payload is used as-is. A payload that encodes to JSON
// null is stored as no payload.
func New(t Type, payload any) (Mutation, error) {
	if !t.Valid() {
		return Mutation{}, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}

	m := Mutation{Type: t}
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		m.Payload = p
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return Mutation{}, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, t, err)
		}
		m.Payload = data
	}
	if m.Empty() {
		m.Payload = nil
	}
	return m, nil
}

// Must is like New but panics on error. Intended for fixed payloads in tests
// and call sites where the type is a compile-time constant.
func Must(t Type, payload any) Mutation {
	m, err := New(t, payload)
	if err != nil {
		panic(err)
	}
	return m
}

// Empty reports whether m carries no payload. A literal JSON null counts as
// none.
func (m Mutation) Empty() bool {
	p := bytes.TrimSpace(m.Payload)
	return len(p) == 0 || bytes.Equal(p, []byte("null"))
}

// Decode unmarshals the payload into v. Returns ErrInvalidPayload when the
// payload is missing or malformed.
func (m Mutation) Decode(v any) error {
	if m.Empty() {
		return fmt.Errorf("%w: %s: payload required", ErrInvalidPayload, m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, m.Type, err)
	}
	return nil
}
