package store

import "errors"

var (
	// ErrSubscriber wraps failures returned by subscribers after a commit.
	// The transition itself was committed.
	ErrSubscriber = errors.New("subscriber failed")
	// ErrPlugin wraps failures raised while installing a plugin.
	ErrPlugin = errors.New("plugin install failed")
)
