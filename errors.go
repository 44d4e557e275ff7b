package shaderop

import "errors"

// Sentinel errors. Callers match with errors.Is; the wrapped message carries
// the offending name, attribute, or position.
var (
	// ErrInvalidArgument reports malformed or ambiguous op-description input:
	// an unknown enum name, a missing required discriminant, conflicting
	// shader text forms, or a numeric overflow into a narrower field.
	ErrInvalidArgument = errors.New("shaderop: invalid argument")

	// ErrNotFound reports a lookup miss for a named resource, heap, shader,
	// or op.
	ErrNotFound = errors.New("shaderop: not found")
)
