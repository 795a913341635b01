package physics

import (
	"fmt"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

// Lorenz is the butterfly attractor advanced by a fixed time step.
type Lorenz struct {
	Sigma, Rho, Beta, Dt float64
	integ                dynamo.Integrator
}

func NewLorenz() *Lorenz {
	return &Lorenz{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0, Dt: 0.01, integ: integrators.NewEuler()}
}

func (l *Lorenz) Name() string               { return "lorenz" }
func (l *Lorenz) Dim() int                   { return 3 }
func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

// Derive calculates the Lorenz derivatives.
func (l *Lorenz) Derive(s dynamo.State) dynamo.State {
	return dynamo.State{l.Sigma * (s[1] - s[0]), s[0]*(l.Rho-s[2]) - s[1], s[0]*s[1] - l.Beta*s[2]}
}

func (l *Lorenz) Step(s dynamo.State) (dynamo.State, error) {
	if len(s) != 3 {
		return nil, dimensionError("lorenz", s)
	}
	return l.integrator().Step(l, s, l.Dt), nil
}

func (l *Lorenz) GetParams() dynamo.Params {
	return dynamo.Params{"sigma": l.Sigma, "rho": l.Rho, "beta": l.Beta, "dt": l.Dt}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	switch n {
	case "sigma":
		l.Sigma = v
	case "rho":
		l.Rho = v
	case "beta":
		l.Beta = v
	case "dt":
		l.Dt = v
	default:
		return fmt.Errorf("lorenz: %w: %s", dynamo.ErrUnknownParam, n)
	}
	return nil
}

func (l *Lorenz) WithParams(p dynamo.Params) dynamo.Map {
	c := *l
	applyParams(&c, p)
	return &c
}

func (l *Lorenz) WithIntegrator(integ dynamo.Integrator) dynamo.Map {
	c := *l
	c.integ = integ
	return &c
}

func (l *Lorenz) integrator() dynamo.Integrator {
	if l.integ == nil {
		return integrators.NewEuler()
	}
	return l.integ
}
