package registry

import "errors"

// Registry errors.
var (
	// ErrNotFound indicates a state change was requested for a
	// composite identity that was never registered.
	ErrNotFound = errors.New("registry: binding not found")

	// ErrUnresolvedLabel indicates the label did not resolve to a
	// procedure and no existing binding could be reused.
	ErrUnresolvedLabel = errors.New("registry: label does not resolve to a procedure")

	// ErrNoProcedure indicates a first registration without a
	// procedure or label.
	ErrNoProcedure = errors.New("registry: procedure required for first registration")
)
