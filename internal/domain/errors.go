package domain

import "errors"

var (
	// ErrConfiguration means the hierarchy is empty or malformed. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidParameter means a caller supplied an out-of-range argument.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound means a code is absent from the hierarchy.
	ErrNotFound = errors.New("not found")
)
