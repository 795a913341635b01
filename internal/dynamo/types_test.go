package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	if a[0] != 1 || b[0] != 4 {
		t.Error("arithmetic mutated its operands")
	}
}

func TestState_Clone(t *testing.T) {
	s := State{1, 2}
	c := s.Clone()
	c[0] = 99
	if s[0] != 1 {
		t.Error("Clone did not create independent copy")
	}
}

func TestParams(t *testing.T) {
	p := Params{"rho": 28, "beta": 8.0 / 3.0, "sigma": 10}

	names := p.Names()
	want := []string{"beta", "rho", "sigma"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}

	c := p.Clone()
	c["rho"] = 99
	if p["rho"] != 28 {
		t.Error("Clone shares storage with original")
	}
}

func TestSeries(t *testing.T) {
	var empty Series
	if empty.Dim() != 0 || empty.Last() != nil {
		t.Error("empty series should have zero dim and nil last")
	}

	s := Series{{1, 2, 3}, {4, 5, 6}}
	if s.Len() != 2 || s.Dim() != 3 {
		t.Errorf("Len/Dim = %d/%d, want 2/3", s.Len(), s.Dim())
	}
	col := s.Column(1)
	if col[0] != 2 || col[1] != 5 {
		t.Errorf("Column(1) = %v", col)
	}
	if s.Last()[2] != 6 {
		t.Errorf("Last() = %v", s.Last())
	}
	if rows := s.Rows(); len(rows) != 2 || rows[1][0] != 4 {
		t.Errorf("Rows() = %v", rows)
	}
}

func TestStepError(t *testing.T) {
	err := &StepError{System: "lorenz", State: State{1}, Wrapped: ErrDimensionMismatch}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Error("StepError should unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}

func TestSweep_Ordered(t *testing.T) {
	got, err := Sweep(context.Background(), 50, 4, func(_ context.Context, i int) (int, error) {
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(got) != 50 {
		t.Fatalf("expected 50 results, got %d", len(got))
	}
	for i, v := range got {
		if v != i*i {
			t.Errorf("result[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestSweep_Empty(t *testing.T) {
	got, err := Sweep(context.Background(), 0, 0, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Sweep(0) = %v, %v; want empty non-nil", got, err)
	}
}

func TestSweep_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := Sweep(context.Background(), 10, 2, func(_ context.Context, i int) (int, error) {
		if i == 3 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestSweep_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sweep(ctx, 10, 2, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
