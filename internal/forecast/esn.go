package forecast

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

var ErrNotFitted = errors.New("forecast: model has not been fitted")

type Config struct {
	Reservoir      int
	SpectralRadius float64
	Leak           float64
	Washout        int
	Ridge          float64
	Seed           int64
}

func DefaultConfig() Config {
	return Config{
		Reservoir:      500,
		SpectralRadius: 0.9,
		Leak:           0.3,
		Washout:        100,
		Ridge:          1e-6,
		Seed:           42,
	}
}

// ESN is a leaky echo-state network with a ridge-regression readout.
// A fitted ESN is read-only and safe for concurrent prediction.
type ESN struct {
	cfg    Config
	inputs int
	win    *mat.Dense // reservoir x inputs
	w      *mat.Dense // reservoir x reservoir
	wout   *mat.Dense // reservoir x outputs, nil until fitted
}

// New draws the input and reservoir weights uniformly from [-0.5, 0.5]
// using cfg.Seed and rescales the reservoir to cfg.SpectralRadius.
func New(inputs int, cfg Config) (*ESN, error) {
	if inputs <= 0 || cfg.Reservoir <= 0 {
		return nil, fmt.Errorf("forecast: need positive inputs and reservoir, got %d and %d", inputs, cfg.Reservoir)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	n := cfg.Reservoir

	win := mat.NewDense(n, inputs, uniform(rng, n*inputs))
	w := mat.NewDense(n, n, uniform(rng, n*n))

	var eig mat.Eigen
	if !eig.Factorize(w, mat.EigenNone) {
		return nil, errors.New("forecast: reservoir eigen decomposition failed")
	}
	radius := 0.0
	for _, v := range eig.Values(nil) {
		radius = math.Max(radius, cmplx.Abs(v))
	}
	if radius > 0 {
		w.Scale(cfg.SpectralRadius/radius, w)
	}

	return &ESN{cfg: cfg, inputs: inputs, win: win, w: w}, nil
}

func uniform(rng *rand.Rand, n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = rng.Float64() - 0.5
	}
	return data
}

func (e *ESN) Config() Config { return e.cfg }
func (e *ESN) Inputs() int    { return e.inputs }
func (e *ESN) Fitted() bool   { return e.wout != nil }

// update advances the reservoir: x = (1-a)x + a tanh(Win u + W x).
func (e *ESN) update(x *mat.VecDense, u dynamo.State) *mat.VecDense {
	var pre, rec mat.VecDense
	pre.MulVec(e.win, mat.NewVecDense(len(u), append([]float64(nil), u...)))
	rec.MulVec(e.w, x)
	pre.AddVec(&pre, &rec)

	a := e.cfg.Leak
	next := mat.NewVecDense(x.Len(), nil)
	for i := 0; i < x.Len(); i++ {
		next.SetVec(i, (1-a)*x.AtVec(i)+a*math.Tanh(pre.AtVec(i)))
	}
	return next
}

// states collects reservoir states driven by u. Row 0 stays zero; row t
// is computed from row t-1 and u[t].
func (e *ESN) states(u dynamo.Series) *mat.Dense {
	n := e.cfg.Reservoir
	x := mat.NewDense(len(u), n, nil)
	prev := mat.NewVecDense(n, nil)
	for t := 1; t < len(u); t++ {
		next := e.update(prev, u[t])
		x.SetRow(t, next.RawVector().Data)
		prev = next
	}
	return x
}

func (e *ESN) checkInputs(u dynamo.Series) error {
	for i, row := range u {
		if len(row) != e.inputs {
			return fmt.Errorf("%w: input row %d has %d components, want %d", dynamo.ErrDimensionMismatch, i, len(row), e.inputs)
		}
	}
	return nil
}

// Fit trains the readout so that the reservoir state after u[t] maps to
// y[t]. The first Washout rows are discarded.
func (e *ESN) Fit(u, y dynamo.Series) error {
	if len(u) != len(y) {
		return fmt.Errorf("%w: %d inputs but %d targets", dynamo.ErrDimensionMismatch, len(u), len(y))
	}
	if len(u) <= e.cfg.Washout+1 {
		return fmt.Errorf("%w: %d rows with washout %d", dynamo.ErrInsufficientData, len(u), e.cfg.Washout)
	}
	if err := e.checkInputs(u); err != nil {
		return err
	}
	outputs := y.Dim()
	for i, row := range y {
		if len(row) != outputs {
			return fmt.Errorf("%w: target row %d", dynamo.ErrRaggedSeries, i)
		}
	}

	n := e.cfg.Reservoir
	washout := e.cfg.Washout
	rows := len(u) - washout

	x := e.states(u)
	xtr := x.Slice(washout, len(u), 0, n)

	ytr := mat.NewDense(rows, outputs, nil)
	for t := 0; t < rows; t++ {
		ytr.SetRow(t, y[washout+t])
	}

	var a mat.Dense
	a.Mul(xtr.T(), xtr)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+e.cfg.Ridge)
	}
	var b mat.Dense
	b.Mul(xtr.T(), ytr)

	var wout mat.Dense
	if err := wout.Solve(&a, &b); err != nil {
		// An ill-conditioned system still yields a usable readout.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("forecast: ridge solve: %w", err)
		}
	}
	e.wout = &wout
	return nil
}

func (e *ESN) readout(x *mat.VecDense) dynamo.State {
	var y mat.VecDense
	y.MulVec(e.wout.T(), x)
	return dynamo.State(append([]float64(nil), y.RawVector().Data...))
}

// Predict is the open-loop prediction for inputs u. Row 0 is zero,
// matching the zero initial reservoir state.
func (e *ESN) Predict(u dynamo.Series) (dynamo.Series, error) {
	if e.wout == nil {
		return nil, ErrNotFitted
	}
	if err := e.checkInputs(u); err != nil {
		return nil, err
	}
	_, outputs := e.wout.Dims()

	out := make(dynamo.Series, len(u))
	if len(u) == 0 {
		return out, nil
	}
	out[0] = make(dynamo.State, outputs)

	prev := mat.NewVecDense(e.cfg.Reservoir, nil)
	for t := 1; t < len(u); t++ {
		prev = e.update(prev, u[t])
		out[t] = e.readout(prev)
	}
	return out, nil
}

// Generate warms the reservoir on warmup and then runs closed-loop for
// steps iterations, feeding each prediction back as the next input. It
// requires outputs and inputs to have the same dimension.
func (e *ESN) Generate(warmup dynamo.Series, steps int) (dynamo.Series, error) {
	if e.wout == nil {
		return nil, ErrNotFitted
	}
	if _, outputs := e.wout.Dims(); outputs != e.inputs {
		return nil, fmt.Errorf("%w: closed loop needs %d outputs, model has %d", dynamo.ErrDimensionMismatch, e.inputs, outputs)
	}
	if len(warmup) == 0 {
		return nil, fmt.Errorf("%w: empty warmup", dynamo.ErrInsufficientData)
	}
	if err := e.checkInputs(warmup); err != nil {
		return nil, err
	}

	x := mat.NewVecDense(e.cfg.Reservoir, nil)
	for _, u := range warmup {
		x = e.update(x, u)
	}
	y := e.readout(x)

	out := make(dynamo.Series, 0, max(steps, 0))
	for i := 0; i < steps; i++ {
		out = append(out, y)
		x = e.update(x, y)
		y = e.readout(x)
	}
	return out, nil
}

// Train fits a fresh network on one-step-ahead pairs of series.
func Train(series dynamo.Series, cfg Config) (*ESN, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 states", dynamo.ErrInsufficientData)
	}
	esn, err := New(series.Dim(), cfg)
	if err != nil {
		return nil, err
	}
	if err := esn.Fit(series[:len(series)-1], series[1:]); err != nil {
		return nil, err
	}
	return esn, nil
}
