package server_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/roster"
	"github.com/tailored-agentic-units/roster/server"
	"github.com/tailored-agentic-units/roster/store"
)

func newClient(t *testing.T, c server.Committer) *server.Client {
	t.Helper()
	srv := httptest.NewServer(server.Mount(c))
	t.Cleanup(srv.Close)
	return server.NewClient(srv.Client(), srv.URL)
}

func TestCommit_ReturnsState(t *testing.T) {
	s := store.New(roster.NewState())
	client := newClient(t, s)

	player := roster.Player{Identity: roster.Identity{UUID: "a", Name: "Ana"}}
	player.Stats.Classes.Tank = roster.ClassType{Rank: 3200, Primary: true, IsActive: true}

	st, err := client.Commit(context.Background(), mutation.Must(mutation.AddPlayer, player))
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got, ok := st.Players["a"]
	if !ok {
		t.Fatalf("player missing from response: %v", st.Players)
	}
	if got.Identity.Name != "Ana" || got.Stats.Classes.Tank.Rank != 3200 {
		t.Errorf("got player %+v", got)
	}
	if len(s.State().Players) != 1 {
		t.Error("commit did not reach the store")
	}
}

func TestCommit_NoPayload(t *testing.T) {
	s := store.New(roster.NewState())
	client := newClient(t, s)

	if _, err := client.Commit(context.Background(), mutation.Must(mutation.ClearTeams, nil)); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func TestCommit_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		m    mutation.Mutation
		want connect.Code
	}{
		{
			name: "unknown type",
			m:    mutation.Mutation{Type: "RENAME_EVERYONE"},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "missing payload",
			m:    mutation.Must(mutation.AddPlayer, nil),
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown player",
			m:    mutation.Must(mutation.DeletePlayer, roster.Ref{UUID: "ghost"}),
			want: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, store.New(roster.NewState()))

			_, err := client.Commit(context.Background(), tt.m)
			if got := connect.CodeOf(err); got != tt.want {
				t.Errorf("CodeOf(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}
}

func TestCommit_SubscriberFailureIsInternal(t *testing.T) {
	s := store.New(roster.NewState())
	s.Subscribe(func(context.Context, mutation.Mutation, roster.State) error {
		return errors.New("quota exceeded")
	})
	client := newClient(t, s)

	_, err := client.Commit(context.Background(), mutation.Must(mutation.ClearTeams, nil))
	if got := connect.CodeOf(err); got != connect.CodeInternal {
		t.Errorf("CodeOf(%v) = %v, want %v", err, got, connect.CodeInternal)
	}
}

func TestState(t *testing.T) {
	initial := roster.NewState()
	initial.Players["a"] = roster.Player{Identity: roster.Identity{UUID: "a", Name: "Ana"}}
	initial.Reserve = []string{"a"}
	client := newClient(t, store.New(initial))

	st, err := client.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if len(st.Players) != 1 || len(st.Reserve) != 1 {
		t.Errorf("got state %+v", st)
	}
}

func TestMutationTypes(t *testing.T) {
	client := newClient(t, store.New(roster.NewState()))

	names, err := client.MutationTypes(context.Background())
	if err != nil {
		t.Fatalf("MutationTypes() error = %v", err)
	}
	all := mutation.All()
	if len(names) != len(all) {
		t.Fatalf("got %d names, want %d", len(names), len(all))
	}
	for i, name := range names {
		if name != string(all[i]) {
			t.Errorf("names[%d] = %q, want %q", i, name, all[i])
		}
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := server.Config{Addr: "127.0.0.1:0", ShutdownTimeout: server.Duration(time.Second)}

	addrs := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, cfg, server.Mount(store.New(roster.NewState())), func(a net.Addr) { addrs <- a })
	}()

	addr := <-addrs
	client := server.NewClient(http.DefaultClient, "http://"+addr.String())
	if _, err := client.State(context.Background()); err != nil {
		t.Fatalf("State() error = %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	err := server.Run(context.Background(), server.Config{Addr: "not-an-address"}, http.NotFoundHandler(), nil)
	if err == nil {
		t.Fatal("expected listen error, got nil")
	}
}
