package integrators

import "github.com/san-kum/chaoslab/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. It keeps no
// scratch buffers so a single value can be shared between goroutines.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(f dynamo.Flow, x dynamo.State, dt float64) dynamo.State {
	n := len(x)
	scratch := make(dynamo.State, n)

	k1 := f.Derive(x)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := f.Derive(scratch)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := f.Derive(scratch)

	for i := 0; i < n; i++ {
		scratch[i] = x[i] + dt*k3[i]
	}
	k4 := f.Derive(scratch)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
