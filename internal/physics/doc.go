// Package physics provides the chaotic systems as pure step functions.
//
// Each model implements [dynamo.Map], advancing a state by exactly one
// discrete step:
//
//   - [Lorenz]: butterfly attractor, explicit Euler with step Dt
//   - [Rossler]: spiral attractor, explicit Euler with step Dt
//   - [Henon]: quadratic map of the plane
//   - [Logistic]: one-dimensional population map
//   - [Ikeda]: optical ring-cavity map
//
// The flows also implement [dynamo.Flow] and [dynamo.Integrable], so the
// Euler default can be swapped for RK4:
//
//	sys := physics.NewLorenz().WithIntegrator(integrators.NewRK4())
//
// Step never indexes past a short state; it reports
// [dynamo.ErrDimensionMismatch] and leaves recovery to the caller.
package physics
