package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/experiment"
)

var ErrEmptyGrid = errors.New("optim: grid has no points")

// Objective scores one parameter assignment.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Axis is one swept parameter and its candidate values.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace returns n evenly spaced values covering [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// ParseAxis reads "name=lo:hi:n" or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Axis{}, fmt.Errorf("invalid axis %q, want name=lo:hi:n or name=v1,v2", s)
	}
	if parts := strings.Split(list, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		n, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err := errors.Join(err1, err2, err3); err != nil {
			return Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		return Axis{Name: name, Values: Linspace(lo, hi, n)}, nil
	}
	var values []float64
	for _, part := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		values = append(values, v)
	}
	return Axis{Name: name, Values: values}, nil
}

type GridSearch struct {
	axes []Axis
	// Maximize selects the largest score instead of the smallest.
	Maximize bool
	Workers  int
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Points enumerates the cartesian product of the axes, last axis fastest.
func (g *GridSearch) Points() []map[string]float64 {
	if len(g.axes) == 0 {
		return nil
	}
	points := []map[string]float64{{}}
	for _, axis := range g.axes {
		next := make([]map[string]float64, 0, len(points)*len(axis.Values))
		for _, p := range points {
			for _, v := range axis.Values {
				q := make(map[string]float64, len(p)+1)
				for k, pv := range p {
					q[k] = pv
				}
				q[axis.Name] = v
				next = append(next, q)
			}
		}
		points = next
	}
	return points
}

// Evaluation is the score of one grid point.
type Evaluation struct {
	Params map[string]float64
	Score  float64
}

// Search scores every grid point in parallel and returns the best one along
// with all evaluations in grid order. NaN scores never win.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (Evaluation, []Evaluation, error) {
	points := g.Points()
	if len(points) == 0 {
		return Evaluation{}, nil, ErrEmptyGrid
	}

	evals, err := dynamo.Sweep(ctx, len(points), g.Workers, func(ctx context.Context, i int) (Evaluation, error) {
		score, err := objective(ctx, points[i])
		if err != nil {
			return Evaluation{}, err
		}
		return Evaluation{Params: points[i], Score: score}, nil
	})
	if err != nil {
		return Evaluation{}, nil, err
	}

	best := Evaluation{Score: math.NaN()}
	for _, e := range evals {
		if math.IsNaN(e.Score) {
			continue
		}
		if math.IsNaN(best.Score) || (g.Maximize && e.Score > best.Score) || (!g.Maximize && e.Score < best.Score) {
			best = e
		}
	}
	return best, evals, nil
}

func widen(p map[string]float64) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// LyapunovObjective scores parameters by the largest Lyapunov exponent of
// sys started from x0.
func LyapunovObjective(sys chaos.Guarded, x0 any, n int) Objective {
	return func(_ context.Context, params map[string]float64) (float64, error) {
		return analysis.LyapunovExponent(sys, widen(params), x0, n, 1e-8), nil
	}
}

// MetricObjective scores parameters by a named run metric of a trajectory
// built from base with the parameters overlaid.
func MetricObjective(registry *chaos.Registry, base experiment.Config, metric string) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base
		cfg.Params = make(map[string]any, len(base.Params)+len(params))
		for k, v := range base.Params {
			cfg.Params[k] = v
		}
		for k, v := range params {
			cfg.Params[k] = v
		}
		result, err := experiment.New(cfg, registry).Run(ctx)
		if err != nil {
			return 0, err
		}
		v, ok := result.Metrics[metric]
		if !ok {
			return 0, fmt.Errorf("optim: unknown metric %q", metric)
		}
		return v, nil
	}
}
