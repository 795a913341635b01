package integrators

import "github.com/san-kum/chaoslab/internal/dynamo"

// Euler is the explicit forward-Euler scheme: x + dt*f(x).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.Flow, x dynamo.State, dt float64) dynamo.State {
	dx := f.Derive(x)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
