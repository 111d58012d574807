package rge

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidInitialState indicates a malformed or unphysical initial vector.
	ErrInvalidInitialState = errors.New("rge: invalid initial state")

	// ErrDiverged indicates a coupling left the physical range before the
	// target scale (Landau pole or numerical blow-up).
	ErrDiverged = errors.New("rge: coupling diverged before target scale")

	// ErrStepTooSmall indicates the adaptive step collapsed below the minimum.
	ErrStepTooSmall = errors.New("rge: adaptive step below minimum")

	// ErrBadGrid indicates a sample grid that is not strictly increasing.
	ErrBadGrid = errors.New("rge: sample grid must be strictly increasing")
)

// IntegrationError wraps a failure with the last successfully reached
// scale point, so callers can diagnose where the run broke down.
type IntegrationError struct {
	T       float64
	Step    int
	State   State
	Wrapped error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%v (last good t=%.4f, step %d)", e.Wrapped, e.T, e.Step)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
