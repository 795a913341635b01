package physics

import (
	"fmt"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

// Rossler is the spiral attractor advanced by a fixed time step.
type Rossler struct {
	A, B, C, Dt float64
	integ       dynamo.Integrator
}

func NewRossler() *Rossler {
	return &Rossler{A: 0.2, B: 0.2, C: 5.7, Dt: 0.01, integ: integrators.NewEuler()}
}

func (r *Rossler) Name() string               { return "rossler" }
func (r *Rossler) Dim() int                   { return 3 }
func (r *Rossler) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

// Derive calculates the Rossler derivatives.
func (r *Rossler) Derive(s dynamo.State) dynamo.State {
	return dynamo.State{-s[1] - s[2], s[0] + r.A*s[1], r.B + s[2]*(s[0]-r.C)}
}

func (r *Rossler) Step(s dynamo.State) (dynamo.State, error) {
	if len(s) != 3 {
		return nil, dimensionError("rossler", s)
	}
	return r.integrator().Step(r, s, r.Dt), nil
}

func (r *Rossler) GetParams() dynamo.Params {
	return dynamo.Params{"a": r.A, "b": r.B, "c": r.C, "dt": r.Dt}
}

func (r *Rossler) SetParam(n string, v float64) error {
	switch n {
	case "a":
		r.A = v
	case "b":
		r.B = v
	case "c":
		r.C = v
	case "dt":
		r.Dt = v
	default:
		return fmt.Errorf("rossler: %w: %s", dynamo.ErrUnknownParam, n)
	}
	return nil
}

func (r *Rossler) WithParams(p dynamo.Params) dynamo.Map {
	c := *r
	applyParams(&c, p)
	return &c
}

func (r *Rossler) WithIntegrator(integ dynamo.Integrator) dynamo.Map {
	c := *r
	c.integ = integ
	return &c
}

func (r *Rossler) integrator() dynamo.Integrator {
	if r.integ == nil {
		return integrators.NewEuler()
	}
	return r.integ
}
