package plugins

import "errors"

var (
	ErrEncode = errors.New("encode snapshot")
	ErrDecode = errors.New("decode snapshot")

	ErrNilBackend = errors.New("persistence: nil backend")
)
