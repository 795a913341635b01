package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors. None of these escape the guarded step functions; they
// surface only at file, network and command-line boundaries.
var (
	// ErrDimensionMismatch indicates a state of the wrong length for a system.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrUnknownSystem indicates a system identifier with no registered factory.
	ErrUnknownSystem = errors.New("dynamo: unknown system")

	// ErrUnknownParam indicates a parameter name the system does not define.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownIntegrator indicates an integrator name with no implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrEmptySeries indicates an operation that needs at least one row.
	ErrEmptySeries = errors.New("dynamo: empty series")

	// ErrRaggedSeries indicates rows of differing width.
	ErrRaggedSeries = errors.New("dynamo: ragged series")

	// ErrInsufficientData indicates too few rows for the requested operation.
	ErrInsufficientData = errors.New("dynamo: insufficient data")
)

// StepError wraps a step failure with the system and offending state.
type StepError struct {
	System  string
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step from %v: %v", e.System, e.State, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
