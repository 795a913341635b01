package analysis

import (
	"math"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Two trajectories start perturbation apart along the first component.
// After every step the separation is logged and the perturbed state is
// pulled back to distance perturbation along the current direction. For
// maps the result is per iteration; for flows it is divided by dt and so
// is per unit time.
func LyapunovExponent(
	sys chaos.Guarded,
	params map[string]any,
	x0 any,
	n int,
	perturbation float64,
) float64 {
	c := sys.Configure(params)
	x, _ := c.Normalize(x0)
	if len(x) == 0 {
		return 0
	}
	return separationExponent(c, x, 0, n, perturbation)
}

// LyapunovSpectrum runs the separation method once per state component,
// starting the perturbation along that axis. Every direction with a
// component along the unstable manifold converges to the largest exponent,
// so a spread between entries means n was too short to forget the start.
func LyapunovSpectrum(
	sys chaos.Guarded,
	params map[string]any,
	x0 any,
	n int,
	perturbation float64,
) []float64 {
	c := sys.Configure(params)
	x, _ := c.Normalize(x0)
	spectrum := make([]float64, len(x))

	for i := range x {
		spectrum[i] = separationExponent(c, x, i, n, perturbation)
	}
	return spectrum
}

func separationExponent(c chaos.Guarded, x0 dynamo.State, axis, n int, d0 float64) float64 {
	if n <= 0 || d0 <= 0 {
		return 0
	}
	x := x0.Clone()
	xp := x0.Clone()
	xp[axis] += d0

	sumLog := 0.0
	count := 0
	for i := 0; i < n; i++ {
		x, _ = c.Advance(x)
		xp, _ = c.Advance(xp)

		sep := xp.Sub(x).Norm()
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			xp = x.Clone()
			xp[axis] += d0
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		xp = x.Add(xp.Sub(x).Scale(d0 / sep))
	}

	if count == 0 {
		return 0
	}
	lambda := sumLog / float64(count)
	if dt, ok := c.DefaultParams()["dt"]; ok && dt > 0 {
		lambda /= dt
	}
	return lambda
}
