package geom

import (
	"errors"
	"fmt"
)

// StructuralError reports a caller bug in the entity graph itself: a curve
// loop that does not close, a transfinite corner that is not a loop vertex,
// an invalid cell count. Structural errors are detected before any kernel
// call for the offending entity is issued.
//
// Kernel failures (degenerate geometry the kernel rejects, tag collisions)
// are NOT wrapped in StructuralError; they propagate unmodified.
type StructuralError struct {
	// Entity names the kind of entity the defect was found on.
	Entity string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("geom: invalid %s: %s", e.Entity, e.Message)
}

// LifecycleError reports an illegal lifecycle transition: refining an
// entity that was never constructed. The session's phase ordering makes
// this unreachable in normal use; hitting it means an entity was handed to
// Refine without going through Construct first.
type LifecycleError struct {
	Entity string
	Phase  Phase
	Op     string
}

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("geom: %s on %s in state %s", e.Op, e.Entity, e.Phase)
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsLifecycle reports whether err is (or wraps) a LifecycleError.
func IsLifecycle(err error) bool {
	var le *LifecycleError
	return errors.As(err, &le)
}

func structural(entity, format string, args ...any) *StructuralError {
	return &StructuralError{Entity: entity, Message: fmt.Sprintf(format, args...)}
}
