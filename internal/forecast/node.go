package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

type NODEConfig struct {
	Hidden     int
	Iterations int
	// Substeps is the number of RK4 steps per sample interval.
	Substeps int
	// Samples caps the transitions scored by one loss evaluation.
	Samples int
	Seed    int64
}

func DefaultNODEConfig() NODEConfig {
	return NODEConfig{
		Hidden:     16,
		Iterations: 100,
		Substeps:   1,
		Samples:    256,
		Seed:       42,
	}
}

// TrainStats reports the mean squared one-step error before and after
// training, in standardized coordinates.
type TrainStats struct {
	InitialLoss float64
	FinalLoss   float64
	Iterations  int
}

// NODE is a neural ODE. The vector field dx/dt = W2 tanh(W1 x + b1) + b2
// acts on states standardized by the training series, and one sample
// interval is one unit of time. Forecasts integrate it with RK4.
// A fitted NODE is read-only and safe for concurrent use.
type NODE struct {
	cfg    NODEConfig
	dim    int
	theta  []float64
	mean   dynamo.State
	scale  dynamo.State
	integ  dynamo.Integrator
	fitted bool
	stats  TrainStats
}

// mlp is the vector field for one parameter vector. theta holds W1
// (hidden x dim), b1, W2 (dim x hidden) and b2, row major.
type mlp struct {
	dim, hidden int
	theta       []float64
}

func (f mlp) Derive(x dynamo.State) dynamo.State {
	d, h := f.dim, f.hidden
	w1 := f.theta[:h*d]
	b1 := f.theta[h*d : h*d+h]
	w2 := f.theta[h*d+h : 2*h*d+h]
	b2 := f.theta[2*h*d+h:]

	act := make([]float64, h)
	for i := range act {
		s := b1[i]
		for j := 0; j < d; j++ {
			s += w1[i*d+j] * x[j]
		}
		act[i] = math.Tanh(s)
	}
	out := make(dynamo.State, d)
	for i := range out {
		s := b2[i]
		for j := 0; j < h; j++ {
			s += w2[i*h+j] * act[j]
		}
		out[i] = s
	}
	return out
}

func paramCount(dim, hidden int) int { return 2*dim*hidden + hidden + dim }

// NewNODE draws the weights from a normal distribution scaled by fan-in,
// using cfg.Seed. Biases start at zero.
func NewNODE(dim int, cfg NODEConfig) (*NODE, error) {
	if dim <= 0 || cfg.Hidden <= 0 {
		return nil, fmt.Errorf("forecast: need positive dimension and hidden width, got %d and %d", dim, cfg.Hidden)
	}
	if cfg.Substeps <= 0 {
		cfg.Substeps = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	h := cfg.Hidden

	theta := make([]float64, paramCount(dim, h))
	for i := 0; i < h*dim; i++ {
		theta[i] = rng.NormFloat64() / math.Sqrt(float64(dim))
	}
	for i := h*dim + h; i < 2*h*dim+h; i++ {
		theta[i] = rng.NormFloat64() / math.Sqrt(float64(h))
	}

	return &NODE{
		cfg:   cfg,
		dim:   dim,
		theta: theta,
		mean:  make(dynamo.State, dim),
		scale: ones(dim),
		integ: integrators.NewRK4(),
	}, nil
}

func ones(n int) dynamo.State {
	s := make(dynamo.State, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func (n *NODE) Config() NODEConfig { return n.cfg }
func (n *NODE) Fitted() bool       { return n.fitted }
func (n *NODE) Stats() TrainStats  { return n.stats }

// advance integrates the field over one sample interval.
func (n *NODE) advance(theta []float64, z dynamo.State) dynamo.State {
	f := mlp{dim: n.dim, hidden: n.cfg.Hidden, theta: theta}
	h := 1 / float64(n.cfg.Substeps)
	for k := 0; k < n.cfg.Substeps; k++ {
		z = n.integ.Step(f, z, h)
	}
	return z
}

type transition struct {
	from, to dynamo.State
}

func (n *NODE) loss(theta []float64, pairs []transition) float64 {
	sum := 0.0
	for _, p := range pairs {
		z := n.advance(theta, p.from)
		for i, v := range z {
			e := v - p.to[i]
			sum += e * e
		}
	}
	return sum / float64(len(pairs)*n.dim)
}

func (n *NODE) standardize(x dynamo.State) dynamo.State {
	z := make(dynamo.State, len(x))
	for i, v := range x {
		z[i] = (v - n.mean[i]) / n.scale[i]
	}
	return z
}

func (n *NODE) restore(z dynamo.State) dynamo.State {
	x := make(dynamo.State, len(z))
	for i, v := range z {
		x[i] = v*n.scale[i] + n.mean[i]
	}
	return x
}

func finiteState(x dynamo.State) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Fit learns the field from consecutive states of series. Transitions
// touching a non-finite state are skipped, and at most Samples evenly
// strided transitions are scored. Weights are optimized by L-BFGS on
// finite-difference gradients; the fitted weights are the best seen.
func (n *NODE) Fit(series dynamo.Series) (TrainStats, error) {
	for i, row := range series {
		if len(row) != n.dim {
			return TrainStats{}, fmt.Errorf("%w: row %d has %d components, want %d", dynamo.ErrDimensionMismatch, i, len(row), n.dim)
		}
	}

	var finite dynamo.Series
	for _, x := range series {
		if finiteState(x) {
			finite = append(finite, x)
		}
	}
	if len(finite) < 2 {
		return TrainStats{}, fmt.Errorf("%w: need at least 2 finite states", dynamo.ErrInsufficientData)
	}
	for i := 0; i < n.dim; i++ {
		mean, std := stat.MeanStdDev(finite.Column(i), nil)
		n.mean[i] = mean
		if std > 0 && !math.IsNaN(std) {
			n.scale[i] = std
		}
	}

	var all []transition
	for t := 0; t+1 < len(series); t++ {
		if finiteState(series[t]) && finiteState(series[t+1]) {
			all = append(all, transition{n.standardize(series[t]), n.standardize(series[t+1])})
		}
	}
	if len(all) == 0 {
		return TrainStats{}, fmt.Errorf("%w: no finite transitions", dynamo.ErrInsufficientData)
	}
	pairs := all
	if n.cfg.Samples > 0 && len(all) > n.cfg.Samples {
		stride := (len(all) + n.cfg.Samples - 1) / n.cfg.Samples
		pairs = pairs[:0:0]
		for t := 0; t < len(all); t += stride {
			pairs = append(pairs, all[t])
		}
	}

	objective := func(theta []float64) float64 { return n.loss(theta, pairs) }
	gradSettings := &fd.Settings{Formula: fd.Forward, Concurrent: true}
	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, theta []float64) {
			fd.Gradient(grad, objective, theta, gradSettings)
		},
	}

	initial := objective(n.theta)
	stats := TrainStats{InitialLoss: initial, FinalLoss: initial}
	if n.cfg.Iterations > 0 {
		result, err := optimize.Minimize(problem, n.theta, &optimize.Settings{
			MajorIterations: n.cfg.Iterations,
			Converger:       &optimize.FunctionConverge{Absolute: 1e-12, Iterations: 20},
		}, &optimize.LBFGS{})
		switch {
		case result != nil && result.F < stats.InitialLoss:
			copy(n.theta, result.X)
			stats.FinalLoss = result.F
			stats.Iterations = result.Stats.MajorIterations
		case err != nil:
			return stats, fmt.Errorf("forecast: train neural ode: %w", err)
		}
	}

	n.fitted = true
	n.stats = stats
	return stats, nil
}

// Generate continues from the last state of warmup for steps sample
// intervals.
func (n *NODE) Generate(warmup dynamo.Series, steps int) (dynamo.Series, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	last := warmup.Last()
	if last == nil {
		return nil, fmt.Errorf("%w: empty warmup", dynamo.ErrInsufficientData)
	}
	if len(last) != n.dim {
		return nil, fmt.Errorf("%w: warmup has %d components, model has %d", dynamo.ErrDimensionMismatch, len(last), n.dim)
	}

	z := n.standardize(last)
	out := make(dynamo.Series, 0, max(steps, 0))
	for i := 0; i < steps; i++ {
		z = n.advance(n.theta, z)
		out = append(out, n.restore(z))
	}
	return out, nil
}

// TrainNODE fits a fresh neural ODE on series.
func TrainNODE(series dynamo.Series, cfg NODEConfig) (*NODE, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 states", dynamo.ErrInsufficientData)
	}
	node, err := NewNODE(series.Dim(), cfg)
	if err != nil {
		return nil, err
	}
	if _, err := node.Fit(series); err != nil {
		return nil, err
	}
	return node, nil
}
