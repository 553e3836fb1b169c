package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/roster/roster"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTypesCmd(t *testing.T) {
	out, err := run(t, "types")
	if err != nil {
		t.Fatalf("types error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 19 {
		t.Errorf("got %d lines, want 19", len(lines))
	}
	if lines[0] != "ADD_TEAMS" {
		t.Errorf("first line = %q, want ADD_TEAMS", lines[0])
	}
}

func TestCommitAndPlayers_FileBackend(t *testing.T) {
	dir := t.TempDir()
	common := []string{"--env", "production", "--storage", "file", "--storage-path", dir, "--observer", "noop"}

	out, err := run(t, append([]string{"commit", "ADD_PLAYER", `{"identity":{"uuid":"a","name":"Ana"}}`}, common...)...)
	if err != nil {
		t.Fatalf("commit error = %v", err)
	}
	var st roster.State
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("commit output is not state JSON: %v\n%s", err, out)
	}
	if len(st.Players) != 1 {
		t.Errorf("got %d players, want 1", len(st.Players))
	}

	if _, err := run(t, append([]string{"commit", "ASSIGN_CAPTAINS", `["a"]`}, common...)...); err != nil {
		t.Fatalf("commit error = %v", err)
	}

	out, err = run(t, append([]string{"players"}, common...)...)
	if err != nil {
		t.Fatalf("players error = %v", err)
	}
	if !strings.Contains(out, "a  Ana [captain]") {
		t.Errorf("players output missing captain line:\n%s", out)
	}
	if !strings.Contains(out, "1 players, 1 captains, 0 squires") {
		t.Errorf("players output missing summary:\n%s", out)
	}

	if _, err := os.Stat(filepath.Join(dir, "roster-state")); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
}

func TestCommitCmd_DeletePlayersNullClearsAll(t *testing.T) {
	common := []string{"--env", "production", "--storage", "file", "--storage-path", t.TempDir(), "--observer", "noop"}

	if _, err := run(t, append([]string{"commit", "ADD_PLAYER", `{"identity":{"uuid":"a","name":"Ana"}}`}, common...)...); err != nil {
		t.Fatalf("commit error = %v", err)
	}

	out, err := run(t, append([]string{"commit", "DELETE_PLAYERS", "null"}, common...)...)
	if err != nil {
		t.Fatalf("commit error = %v", err)
	}
	var st roster.State
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("commit output is not state JSON: %v\n%s", err, out)
	}
	if len(st.Players) != 0 {
		t.Errorf("got %d players, want 0", len(st.Players))
	}
}

func TestCommitCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown type", args: []string{"commit", "RENAME_EVERYONE"}},
		{name: "bad json", args: []string{"commit", "ADD_PLAYER", "{nope"}},
		{name: "no args", args: []string{"commit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, append(tt.args, "--observer", "noop")...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
