package chain

import "errors"

// Sentinel errors returned by Builder.Build. Callers branch with errors.Is.
var (
	// ErrNilHandler indicates a nil handler was appended to the builder.
	ErrNilHandler = errors.New("chain: nil handler")

	// ErrEmptyHandlerName indicates a handler with an empty name.
	ErrEmptyHandlerName = errors.New("chain: handler name is empty")

	// ErrDuplicateHandler indicates the same handler name appears more than
	// once. Rejecting duplicates keeps every link reachable exactly once, so
	// a chain can never contain itself as a successor.
	ErrDuplicateHandler = errors.New("chain: duplicate handler")
)
