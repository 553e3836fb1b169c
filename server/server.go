// Package server exposes a roster store over connect RPC. Messages are
// protobuf well-known types: a commit request is a Struct carrying "type"
// and an optional "payload"; state responses are the JSON state as a Struct.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/roster/mutation"
	"github.com/tailored-agentic-units/roster/roster"
	"github.com/tailored-agentic-units/roster/store"
)

const ServiceName = "roster.v1.RosterService"

// Fully-qualified procedure paths.
const (
	CommitProcedure            = "/" + ServiceName + "/Commit"
	GetStateProcedure          = "/" + ServiceName + "/GetState"
	ListMutationTypesProcedure = "/" + ServiceName + "/ListMutationTypes"
)

// Committer is the store surface the service needs. Both *store.Store and
// *app.App satisfy it.
type Committer interface {
	Commit(ctx context.Context, m mutation.Mutation) error
	State() roster.State
}

type service struct {
	store Committer
}

// NewHandler returns the service path prefix and its handler, ready to be
// mounted on a mux.
func NewHandler(c Committer, opts ...connect.HandlerOption) (string, http.Handler) {
	svc := &service{store: c}

	mux := http.NewServeMux()
	mux.Handle(CommitProcedure, connect.NewUnaryHandler(CommitProcedure, svc.commit, opts...))
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, svc.getState, opts...))
	mux.Handle(ListMutationTypesProcedure, connect.NewUnaryHandler(ListMutationTypesProcedure, svc.listMutationTypes, opts...))

	return "/" + ServiceName + "/", mux
}

func (s *service) commit(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	m, err := decodeMutation(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.Commit(ctx, m); err != nil {
		return nil, connect.NewError(codeFor(err), err)
	}

	st, err := encodeState(s.store.State())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}

func (s *service) getState(_ context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	st, err := encodeState(s.store.State())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}

func (s *service) listMutationTypes(_ context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[structpb.ListValue], error) {
	all := mutation.All()
	values := make([]any, len(all))
	for i, t := range all {
		values[i] = string(t)
	}
	list, err := structpb.NewList(values)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(list), nil
}

func decodeMutation(msg *structpb.Struct) (mutation.Mutation, error) {
	fields := msg.GetFields()
	t, err := mutation.Parse(strings.TrimSpace(fields["type"].GetStringValue()))
	if err != nil {
		return mutation.Mutation{}, err
	}

	payload, ok := fields["payload"]
	if !ok {
		return mutation.New(t, nil)
	}
	if _, isNull := payload.GetKind().(*structpb.Value_NullValue); isNull {
		return mutation.New(t, nil)
	}
	raw, err := protojson.Marshal(payload)
	if err != nil {
		return mutation.Mutation{}, fmt.Errorf("%w: %v", mutation.ErrInvalidPayload, err)
	}
	return mutation.New(t, json.RawMessage(raw))
}

func encodeState(s roster.State) (*structpb.Struct, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func codeFor(err error) connect.Code {
	switch {
	case errors.Is(err, store.ErrSubscriber):
		return connect.CodeInternal
	case errors.Is(err, mutation.ErrUnknownType), errors.Is(err, mutation.ErrInvalidPayload):
		return connect.CodeInvalidArgument
	case errors.Is(err, roster.ErrPlayerNotFound):
		return connect.CodeNotFound
	case errors.Is(err, roster.ErrPlayerExists):
		return connect.CodeAlreadyExists
	default:
		return connect.CodeFailedPrecondition
	}
}
