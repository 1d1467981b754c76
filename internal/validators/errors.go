package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrInvalidRequest wraps every rule violation found in a payload.
	ErrInvalidRequest = errors.New("invalid request")
)
