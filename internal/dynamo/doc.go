// Package dynamo provides core primitives shared by the chaotic systems.
//
// The package defines the fundamental types for discrete and continuous
// dynamical systems:
//
//   - [State]: vector representing system state
//   - [Params]: named real coefficients of a system
//   - [Series]: time-major trajectory of states
//   - [Map]: one-step state transition with its own parameters
//   - [Flow] and [Integrator]: continuous systems and their stepping schemes
//   - [Sweep]: bounded parallel evaluation of independent trajectories
//
// # Example
//
//	sys := physics.NewLorenz()
//	next, err := sys.Step(dynamo.State{1, 1, 1})
//
// # Thread Safety
//
// Map values are immutable after construction; WithParams returns a copy.
// A single trajectory is strictly sequential, but independent trajectories
// may run concurrently through [Sweep].
package dynamo
