package chaos

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

func closeTo(a, b dynamo.State, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestRegressions(t *testing.T) {
	tests := []struct {
		name string
		got  dynamo.State
		want dynamo.State
		eps  float64
	}{
		{"logistic", LogisticStep([]float64{0.5}, map[string]any{"r": 3.9}), dynamo.State{0.975}, 1e-12},
		{"logistic default r", LogisticStep([]float64{0.5}, nil), dynamo.State{0.975}, 1e-12},
		{"henon", HenonStep([]float64{0.1, 0.0}, map[string]any{"a": 1.4, "b": 0.3}), dynamo.State{0.986, 0.03}, 1e-12},
		{"lorenz", LorenzStep([]float64{1, 1, 1}, nil), dynamo.State{1.0, 1.26, 0.98333}, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !closeTo(tt.got, tt.want, tt.eps) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestPaddingAndTruncation(t *testing.T) {
	padded := LorenzStep([]float64{2}, nil)
	explicit := LorenzStep([]float64{2, 1, 1}, nil)
	if !closeTo(padded, explicit, 0) {
		t.Errorf("1-element input: got %v, want %v", padded, explicit)
	}

	truncated := LorenzStep([]float64{2, 3, 4, 5, 6}, nil)
	explicit = LorenzStep([]float64{2, 3, 4}, nil)
	if !closeTo(truncated, explicit, 0) {
		t.Errorf("5-element input: got %v, want %v", truncated, explicit)
	}
}

func TestTotalityAndDimension(t *testing.T) {
	inputs := []any{
		nil,
		[]float64{},
		[]float64{1},
		[]float64{1, 2, 3, 4, 5, 6},
		"garbage",
		[]any{"x", 1},
		map[string]int{"x": 1},
		[][]float64{{0.1, 0.2}, {0.3}},
		3.0,
		struct{}{},
	}

	for _, sys := range NewRegistry().Systems() {
		for _, in := range inputs {
			got := sys.Step(in, map[string]any{"dt": "bad", "r": []int{1}})
			if len(got) != sys.Dim() {
				t.Errorf("%s: Step(%v) has %d components, want %d", sys.Name(), in, len(got), sys.Dim())
			}
		}
	}
}

func TestDefaultFallback(t *testing.T) {
	for _, sys := range NewRegistry().Systems() {
		a := sys.Step(nil, nil)
		b := sys.Step(sys.DefaultState(), nil)
		if !closeTo(a, b, 0) {
			t.Errorf("%s: Step(nil) = %v, Step(default) = %v", sys.Name(), a, b)
		}
	}
}

func TestDeterminism(t *testing.T) {
	params := map[string]any{"a": 1.3}
	for _, sys := range NewRegistry().Systems() {
		x := sys.DefaultState()
		if !closeTo(sys.Step(x, params), sys.Step(x, params), 0) {
			t.Errorf("%s: repeated step differs", sys.Name())
		}
	}
}

func TestStepDoesNotMutateCaller(t *testing.T) {
	in := []float64{1, 2, 3}
	LorenzStep(in, nil)
	Lorenz(10, nil, in)
	if in[0] != 1 || in[1] != 2 || in[2] != 3 {
		t.Errorf("caller slice mutated: %v", in)
	}
}

func TestTrajectoryLength(t *testing.T) {
	tests := []struct {
		n    any
		want int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{25, 25},
		{"7", 7},
		{2.6, 3},
		{"lots", 0},
		{nil, 0},
	}

	for _, sys := range NewRegistry().Systems() {
		for _, tt := range tests {
			series := sys.Trajectory(tt.n, nil, nil)
			if series == nil {
				t.Fatalf("%s: nil series for n=%v", sys.Name(), tt.n)
			}
			if len(series) != tt.want {
				t.Errorf("%s: len(trajectory(%v)) = %d, want %d", sys.Name(), tt.n, len(series), tt.want)
			}
			for i, x := range series {
				if len(x) != sys.Dim() {
					t.Fatalf("%s: row %d has %d components", sys.Name(), i, len(x))
				}
			}
		}
	}
}

func TestTrajectoryExcludesInitialState(t *testing.T) {
	series := Logistic(3, nil, []float64{0.5})
	want := []float64{0.975}
	want = append(want, 3.9*want[0]*(1-want[0]))
	want = append(want, 3.9*want[1]*(1-want[1]))

	for i := range want {
		if math.Abs(series[i][0]-want[i]) > 1e-12 {
			t.Errorf("step %d: got %f, want %f", i, series[i][0], want[i])
		}
	}
}

func TestTrajectoryMatchesRepeatedSteps(t *testing.T) {
	drivers := map[string]func(any, map[string]any, any) dynamo.Series{
		"lorenz": Lorenz, "rossler": Rossler, "henon": Henon, "logistic": Logistic, "ikeda": Ikeda,
	}
	steps := map[string]func(any, map[string]any) dynamo.State{
		"lorenz": LorenzStep, "rossler": RosslerStep, "henon": HenonStep, "logistic": LogisticStep, "ikeda": IkedaStep,
	}

	for name, drive := range drivers {
		series := drive(20, nil, nil)
		var x any
		for i := range series {
			next := steps[name](x, nil)
			if !closeTo(series[i], next, 0) {
				t.Fatalf("%s: row %d = %v, stepping gives %v", name, i, series[i], next)
			}
			x = next
		}
	}
}

func TestTrajectoryParams(t *testing.T) {
	series := Logistic(5, map[string]any{"r": 2.0}, 0.5)
	for i, x := range series {
		if math.Abs(x[0]-0.5) > 1e-12 {
			t.Errorf("r=2 fixed point drifted at step %d: %f", i, x[0])
		}
	}

	bad := Logistic(5, map[string]any{"r": "fast"}, 0.5)
	good := Logistic(5, nil, 0.5)
	if !closeTo(bad[4], good[4], 0) {
		t.Errorf("unparseable r should fall back to default: %v vs %v", bad[4], good[4])
	}
}

type brokenMap struct{}

func (brokenMap) Name() string                           { return "broken" }
func (brokenMap) Dim() int                               { return 2 }
func (brokenMap) DefaultState() dynamo.State             { return dynamo.State{7, 8} }
func (brokenMap) GetParams() dynamo.Params               { return dynamo.Params{} }
func (b brokenMap) WithParams(dynamo.Params) dynamo.Map  { return b }
func (brokenMap) Step(dynamo.State) (dynamo.State, error) { return nil, errors.New("diverged") }

type wideMap struct{ brokenMap }

func (wideMap) Step(x dynamo.State) (dynamo.State, error) {
	return dynamo.State{x[0], x[1], 99, 100}, nil
}

func TestStepFailureFallsBackToDefault(t *testing.T) {
	g := Guard(brokenMap{})
	got := g.Step([]float64{1, 2}, nil)
	if !closeTo(got, dynamo.State{7, 8}, 0) {
		t.Errorf("failing step: got %v, want default", got)
	}

	series, report := g.TrajectoryReport(4, nil, []float64{1})
	if len(series) != 4 || report.Fallbacks != 4 || report.Initial != coerce.Padded {
		t.Errorf("report = %+v, len = %d", report, len(series))
	}
}

func TestStepOutputIsNormalized(t *testing.T) {
	got := Guard(wideMap{}).Step([]float64{1, 2}, nil)
	if !closeTo(got, dynamo.State{1, 2}, 0) {
		t.Errorf("oversized step output should be truncated, got %v", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if names := r.Names(); len(names) != 5 || names[0] != "henon" {
		t.Errorf("Names() = %v", names)
	}

	for _, name := range []string{"lorenz", " Rossler ", "rössler", "HENON", "logistic_map", "ikeda"} {
		if _, err := r.Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}

	if _, err := r.Lookup("duffing"); !errors.Is(err, dynamo.ErrUnknownSystem) {
		t.Errorf("expected ErrUnknownSystem, got %v", err)
	}

	sys, fellBack := r.Resolve("duffing")
	if !fellBack || sys.Name() != DefaultSystem {
		t.Errorf("Resolve(duffing) = %s, %v", sys.Name(), fellBack)
	}
	sys, fellBack = r.Resolve("ikeda")
	if fellBack || sys.Name() != "ikeda" {
		t.Errorf("Resolve(ikeda) = %s, %v", sys.Name(), fellBack)
	}
}

func TestRegistryWithIntegrator(t *testing.T) {
	r := NewRegistry()
	lorenz, _ := r.Lookup("lorenz")

	rk4, err := r.WithIntegrator(lorenz, "rk4")
	if err != nil {
		t.Fatalf("WithIntegrator: %v", err)
	}
	if closeTo(rk4.Step(nil, nil), lorenz.Step(nil, nil), 0) {
		t.Error("rk4 lorenz should differ from euler lorenz")
	}

	henon, _ := r.Lookup("henon")
	same, err := r.WithIntegrator(henon, "rk4")
	if err != nil || !closeTo(same.Step(nil, nil), henon.Step(nil, nil), 0) {
		t.Errorf("maps should ignore the integrator: %v", err)
	}

	if _, err := r.WithIntegrator(lorenz, "leapfrog"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}
}

func BenchmarkLorenzTrajectory(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Lorenz(1000, nil, nil)
	}
}

func TestTrajectoryContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series, _, err := Guard(physics.NewLogistic()).TrajectoryContext(ctx, 10, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected no states after cancellation, got %d", len(series))
	}
}
