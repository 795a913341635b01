package metrics

import "github.com/san-kum/chaoslab/internal/dynamo"

// Finite is the fraction of states with no NaN or infinite component.
type Finite struct {
	finite  int
	samples int
}

func NewFinite() *Finite { return &Finite{} }

func (f *Finite) Name() string { return "finite" }

func (f *Finite) Observe(x dynamo.State, step int) {
	f.samples++
	if x.IsValid() {
		f.finite++
	}
}

func (f *Finite) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return float64(f.finite) / float64(f.samples)
}

func (f *Finite) Reset() {
	f.finite = 0
	f.samples = 0
}
