package mutation

import "errors"

// Sentinel errors for mutation construction.
var (
	ErrUnknownType    = errors.New("unknown mutation type")
	ErrInvalidPayload = errors.New("invalid mutation payload")
)
