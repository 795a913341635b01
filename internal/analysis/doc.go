// Package analysis characterizes trajectories of the chaotic systems.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [LyapunovSpectrum]: per-direction separation exponents
//   - [Bifurcation]: parallel parameter sweep of long-run values
//   - [PowerSpectrum] and [DominantFrequency]: windowed FFT of one component
//   - [PhasePortrait] and [PoincareSectionFromSeries]: 2D projections
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, nil, nil, 10000, 1e-9)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
