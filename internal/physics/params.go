package physics

import "github.com/san-kum/chaoslab/internal/dynamo"

type tunable interface {
	SetParam(name string, v float64) error
}

// applyParams sets every known key of p on t; unknown keys are skipped.
func applyParams(t tunable, p dynamo.Params) {
	for name, v := range p {
		_ = t.SetParam(name, v)
	}
}

// dimensionError reports a state of the wrong length for system.
func dimensionError(system string, s dynamo.State) error {
	return &dynamo.StepError{System: system, State: s.Clone(), Wrapped: dynamo.ErrDimensionMismatch}
}
