package roster

import "errors"

// Sentinel errors returned by reducers. Malformed payloads surface as
// mutation.ErrInvalidPayload.
var (
	ErrNoReducer      = errors.New("no reducer for mutation")
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already exists")
)
