package dynamo

import (
	"math"
	"sort"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Params holds named real coefficients of a system.
type Params map[string]float64

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Series is a trajectory: one state per step, time-major.
type Series []State

func (s Series) Len() int { return len(s) }

// Dim returns the width of the first row, or 0 for an empty series.
func (s Series) Dim() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Column extracts one state component across all steps.
func (s Series) Column(i int) []float64 {
	col := make([]float64, len(s))
	for t, x := range s {
		if i < len(x) {
			col[t] = x[i]
		}
	}
	return col
}

func (s Series) Last() State {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Rows converts the series to plain nested slices for encoders.
func (s Series) Rows() [][]float64 {
	rows := make([][]float64, len(s))
	for i, x := range s {
		rows[i] = x
	}
	return rows
}

// Flow is a continuous-time system dX/dt = f(X).
type Flow interface {
	Derive(x State) State
}

type Integrator interface {
	Name() string
	Step(f Flow, x State, dt float64) State
}

// Map is a discrete state-transition rule with its own parameter set.
// Step must not mutate x and returns ErrDimensionMismatch for a
// state of the wrong length.
type Map interface {
	Name() string
	Dim() int
	DefaultState() State
	GetParams() Params
	// WithParams returns a copy of the map using p; unknown keys are ignored.
	WithParams(p Params) Map
	Step(x State) (State, error)
}

// Integrable is implemented by flows that can switch their stepping scheme.
type Integrable interface {
	WithIntegrator(integ Integrator) Map
}

type Metric interface {
	Name() string
	Observe(x State, step int)
	Value() float64
	Reset()
}
