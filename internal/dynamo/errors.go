package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidDots indicates a malformed particle-count argument.
	ErrInvalidDots = errors.New("dynamo: particle count must be a non-negative integer")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a particle with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrCanceled indicates the frame loop was interrupted.
	ErrCanceled = errors.New("dynamo: simulation canceled by context")
)

// FrameError wraps an error with the frame it occurred in.
type FrameError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
