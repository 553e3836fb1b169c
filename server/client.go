package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/roster"
)

// Client calls a remote roster service.
type Client struct {
	commit   *connect.Client[structpb.Struct, structpb.Struct]
	getState *connect.Client[emptypb.Empty, structpb.Struct]
	listType *connect.Client[emptypb.Empty, structpb.ListValue]
}

// NewClient creates a Client for the service rooted at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		commit:   connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+CommitProcedure, opts...),
		getState: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+GetStateProcedure, opts...),
		listType: connect.NewClient[emptypb.Empty, structpb.ListValue](httpClient, baseURL+ListMutationTypesProcedure, opts...),
	}
}

// Commit sends m and returns the resulting state.
func (c *Client) Commit(ctx context.Context, m mutation.Mutation) (roster.State, error) {
	req := map[string]any{"type": string(m.Type)}
	if !m.Empty() {
		var payload any
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return roster.State{}, fmt.Errorf("%w: %v", mutation.ErrInvalidPayload, err)
		}
		req["payload"] = payload
	}
	msg, err := structpb.NewStruct(req)
	if err != nil {
		return roster.State{}, fmt.Errorf("%w: %v", mutation.ErrInvalidPayload, err)
	}

	resp, err := c.commit.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return roster.State{}, err
	}
	return decodeState(resp.Msg)
}

// State fetches the current remote state.
func (c *Client) State(ctx context.Context) (roster.State, error) {
	resp, err := c.getState.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return roster.State{}, err
	}
	return decodeState(resp.Msg)
}

// MutationTypes lists the mutation names the server accepts.
func (c *Client) MutationTypes(ctx context.Context) ([]string, error) {
	resp, err := c.listType.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	values := resp.Msg.GetValues()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.GetStringValue()
	}
	return names, nil
}

func decodeState(msg *structpb.Struct) (roster.State, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return roster.State{}, err
	}
	st := roster.NewState()
	if err := json.Unmarshal(data, &st); err != nil {
		return roster.State{}, err
	}
	if st.Players == nil {
		st.Players = roster.Players{}
	}
	return st, nil
}
