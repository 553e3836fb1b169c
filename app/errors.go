package app

import "errors"

// ErrConfigFormat is returned by LoadConfig for unsupported file extensions.
var ErrConfigFormat = errors.New("unsupported config format")
