package analysis

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

func lookup(t *testing.T, name string) chaos.Guarded {
	t.Helper()
	sys, err := chaos.NewRegistry().Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return sys
}

func TestLyapunovExponent_Logistic(t *testing.T) {
	sys := lookup(t, "logistic")

	chaotic := LyapunovExponent(sys, map[string]any{"r": 4.0}, 0.3, 20000, 1e-9)
	if math.Abs(chaotic-math.Ln2) > 0.1 {
		t.Errorf("r=4: lambda = %f, want about ln 2", chaotic)
	}

	stable := LyapunovExponent(sys, map[string]any{"r": 2.8}, 0.3, 5000, 1e-9)
	if stable >= 0 {
		t.Errorf("r=2.8: lambda = %f, want negative", stable)
	}
}

func TestLyapunovExponent_Henon(t *testing.T) {
	lambda := LyapunovExponent(lookup(t, "henon"), nil, nil, 20000, 1e-9)
	if lambda < 0.3 || lambda > 0.55 {
		t.Errorf("henon lambda = %f, want about 0.42", lambda)
	}
}

func TestLyapunovExponent_Lorenz(t *testing.T) {
	lambda := LyapunovExponent(lookup(t, "lorenz"), nil, nil, 20000, 1e-8)
	if lambda <= 0 {
		t.Errorf("lorenz lambda = %f, want positive", lambda)
	}
}

func TestLyapunovExponent_Degenerate(t *testing.T) {
	sys := lookup(t, "henon")
	if got := LyapunovExponent(sys, nil, nil, 0, 1e-9); got != 0 {
		t.Errorf("n=0: got %f", got)
	}
	if got := LyapunovExponent(sys, nil, nil, 100, 0); got != 0 {
		t.Errorf("zero perturbation: got %f", got)
	}
}

func TestLyapunovSpectrum(t *testing.T) {
	logistic := LyapunovSpectrum(lookup(t, "logistic"), map[string]any{"r": 4.0}, 0.3, 20000, 1e-9)
	if len(logistic) != 1 {
		t.Fatalf("spectrum length = %d, want 1", len(logistic))
	}
	if math.Abs(logistic[0]-math.Ln2) > 0.1 {
		t.Errorf("logistic r=4 exponent = %f, want ln 2", logistic[0])
	}

	henon := lookup(t, "henon")
	largest := LyapunovExponent(henon, nil, nil, 20000, 1e-9)
	spectrum := LyapunovSpectrum(henon, nil, nil, 20000, 1e-9)
	if len(spectrum) != 2 {
		t.Fatalf("spectrum length = %d, want 2", len(spectrum))
	}
	for i, v := range spectrum {
		if math.Abs(v-largest) > 0.05 {
			t.Errorf("direction %d = %f, want about %f", i, v, largest)
		}
	}
}

func TestBifurcation_Logistic(t *testing.T) {
	points, err := Bifurcation(context.Background(), lookup(t, "logistic"), "r", 2.8, 3.2, 3, 0, 0.5, 2000, 200)
	if err != nil {
		t.Fatalf("Bifurcation failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].Param != 2.8 || math.Abs(points[2].Param-3.2) > 1e-12 {
		t.Errorf("params out of order: %v %v", points[0].Param, points[2].Param)
	}
	if len(points[0].Values) != 1 {
		t.Errorf("r=2.8 should settle to a fixed point, got %v", points[0].Values)
	}
	if len(points[2].Values) != 2 {
		t.Errorf("r=3.2 should settle to period 2, got %v", points[2].Values)
	}
}

func TestBifurcation_Empty(t *testing.T) {
	points, err := Bifurcation(context.Background(), lookup(t, "logistic"), "r", 3, 4, 0, 0, nil, 10, 10)
	if err != nil || len(points) != 0 {
		t.Errorf("got %v, %v", points, err)
	}
}

func TestBifurcation_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Bifurcation(ctx, lookup(t, "logistic"), "r", 3, 4, 8, 0, nil, 10, 10)
	if err == nil {
		t.Error("expected cancellation error")
	}
}

func TestBifurcationToASCII(t *testing.T) {
	if BifurcationToASCII(nil, 10, 5) != "" {
		t.Error("expected empty output for no data")
	}
	out := BifurcationToASCII([]BifurcationPoint{{Param: 1, Values: []float64{0.5}}, {Param: 2, Values: []float64{0.2, 0.8}}}, 10, 5)
	if strings.Count(out, "\n") != 5 || !strings.Contains(out, "•") {
		t.Errorf("unexpected plot:\n%s", out)
	}
}

func TestPowerSpectrum_Sine(t *testing.T) {
	const n = 512
	const rate = 64.0
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 8 * float64(i) / rate)
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2+1 {
		t.Fatalf("spectrum length = %d, want %d", len(ps), n/2+1)
	}
	if f := DominantFrequency(data, rate); math.Abs(f-8) > rate/n {
		t.Errorf("dominant frequency = %f, want 8", f)
	}
}

func TestPowerSpectrum_Short(t *testing.T) {
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil spectrum for a single sample")
	}
	if DominantFrequency(nil, 1) != 0 {
		t.Error("expected zero frequency for no data")
	}
}

func TestPhasePortrait(t *testing.T) {
	series := dynamo.Series{{0, 1, 2}, {1, math.NaN(), 3}, {2, 3, 4}}
	p := PhasePortrait(series, 0, 1)
	if p == nil || len(p.Points) != 2 {
		t.Fatalf("expected 2 finite points, got %+v", p)
	}
	if PhasePortrait(series, 0, 3) != nil {
		t.Error("expected nil for out-of-range index")
	}
	if out := PhasePortraitToASCII(p, 20, 10); strings.Count(out, "\n") != 10 {
		t.Errorf("unexpected plot:\n%s", out)
	}
}

func TestPoincareSection(t *testing.T) {
	series := dynamo.Series{{-1, 0}, {1, 2}, {-1, 0}, {1, 4}}
	s := PoincareSectionFromSeries(series, 0, 0, 0, 1)
	if len(s.Points) != 2 {
		t.Fatalf("expected 2 crossings, got %d", len(s.Points))
	}
	if s.Points[0].Y != 1 || s.Points[1].Y != 2 {
		t.Errorf("interpolated points = %v", s.Points)
	}
	if PoincareSectionToASCII(&PoincareSection{}, 10, 5) != "No crossings detected" {
		t.Error("expected placeholder for empty section")
	}
}
