package mutation_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/roster/mutation"
)

func TestAll_Closed(t *testing.T) {
	all := mutation.All()
	if len(all) != 19 {
		t.Fatalf("All() returned %d types, want 19", len(all))
	}

	seen := make(map[mutation.Type]bool)
	for _, typ := range all {
		if seen[typ] {
			t.Errorf("duplicate type %q", typ)
		}
		seen[typ] = true

		if !typ.Valid() {
			t.Errorf("%q.Valid() = false, want true", typ)
		}
	}
}

func TestAll_ValueMatchesName(t *testing.T) {
	tests := []struct {
		typ  mutation.Type
		want string
	}{
		{mutation.AddPlayer, "ADD_PLAYER"},
		{mutation.DeletePlayers, "DELETE_PLAYERS"},
		{mutation.AssignCaptains, "ASSIGN_CAPTAINS"},
		{mutation.ImportPlayersOld, "IMPORT_PLAYERS_OLD"},
		{mutation.RemoveReservedPlayer, "REMOVE_RESERVED_PLAYER"},
	}

	for _, tt := range tests {
		if tt.typ.String() != tt.want {
			t.Errorf("got %q, want %q", tt.typ.String(), tt.want)
		}
	}
}

func TestAll_DefensiveCopy(t *testing.T) {
	all := mutation.All()
	all[0] = "HACKED"

	if mutation.All()[0] != mutation.AddTeams {
		t.Error("All() returned a shared slice")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    mutation.Type
		wantErr bool
	}{
		{name: "known", input: "ADD_PLAYER", want: mutation.AddPlayer},
		{name: "unknown", input: "RENAME_PLAYER", wantErr: true},
		{name: "lowercase is not a member", input: "add_player", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mutation.Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, mutation.ErrUnknownType) {
					t.Errorf("Parse(%q) error = %v, want ErrUnknownType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	m, err := mutation.New(mutation.AddReserve, map[string]string{"uuid": "abc"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.Type != mutation.AddReserve {
		t.Errorf("got Type %q, want %q", m.Type, mutation.AddReserve)
	}
	if string(m.Payload) != `{"uuid":"abc"}` {
		t.Errorf("got Payload %s", m.Payload)
	}
}

func TestNew_NilPayload(t *testing.T) {
	m, err := mutation.New(mutation.ClearTeams, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(m.Payload) != 0 {
		t.Errorf("got Payload %s, want empty", m.Payload)
	}
}

func TestNew_NullPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{name: "raw null", payload: json.RawMessage("null")},
		{name: "nil slice", payload: []string(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := mutation.New(mutation.DeletePlayers, tt.payload)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if len(m.Payload) != 0 {
				t.Errorf("got Payload %s, want empty", m.Payload)
			}
		})
	}
}

func TestMutation_Empty(t *testing.T) {
	tests := []struct {
		payload string
		want    bool
	}{
		{payload: "", want: true},
		{payload: "null", want: true},
		{payload: " null\n", want: true},
		{payload: "[]", want: false},
		{payload: `"null"`, want: false},
	}

	for _, tt := range tests {
		m := mutation.Mutation{Type: mutation.DeletePlayers, Payload: []byte(tt.payload)}
		if got := m.Empty(); got != tt.want {
			t.Errorf("Mutation{Payload: %q}.Empty() = %v, want %v", tt.payload, got, tt.want)
		}
	}
}

func TestDecode_NullIsMissing(t *testing.T) {
	m := mutation.Mutation{Type: mutation.AssignCaptains, Payload: []byte("null")}
	var ids []string
	if err := m.Decode(&ids); !errors.Is(err, mutation.ErrInvalidPayload) {
		t.Errorf("Decode() error = %v, want ErrInvalidPayload", err)
	}
}

func TestNew_RawPayload(t *testing.T) {
	raw := json.RawMessage(`["a","b"]`)
	m, err := mutation.New(mutation.ReservePlayers, raw)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if string(m.Payload) != `["a","b"]` {
		t.Errorf("got Payload %s", m.Payload)
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := mutation.New("NOT_A_MUTATION", nil)
	if !errors.Is(err, mutation.ErrUnknownType) {
		t.Errorf("New() error = %v, want ErrUnknownType", err)
	}
}

func TestNew_UnencodablePayload(t *testing.T) {
	_, err := mutation.New(mutation.AddPlayer, make(chan int))
	if !errors.Is(err, mutation.ErrInvalidPayload) {
		t.Errorf("New() error = %v, want ErrInvalidPayload", err)
	}
}

func TestMutation_Decode(t *testing.T) {
	m := mutation.Must(mutation.AssignSquires, []string{"a", "b"})

	var ids []string
	if err := m.Decode(&ids); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(ids) != 2 || ids[1] != "b" {
		t.Errorf("Decode() = %v", ids)
	}
}

func TestMutation_Decode_Missing(t *testing.T) {
	m := mutation.Must(mutation.AssignSquires, nil)

	var ids []string
	if err := m.Decode(&ids); !errors.Is(err, mutation.ErrInvalidPayload) {
		t.Errorf("Decode() error = %v, want ErrInvalidPayload", err)
	}
}
