package metrics

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Extent is the largest max-min range over all state components, taken
// over finite values only.
type Extent struct {
	lo, hi []float64
}

func NewExtent() *Extent { return &Extent{} }

func (e *Extent) Name() string { return "extent" }

func (e *Extent) Observe(x dynamo.State, step int) {
	for len(e.lo) < len(x) {
		e.lo = append(e.lo, math.Inf(1))
		e.hi = append(e.hi, math.Inf(-1))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		e.lo[i] = math.Min(e.lo[i], v)
		e.hi[i] = math.Max(e.hi[i], v)
	}
}

func (e *Extent) Value() float64 {
	best := 0.0
	for i := range e.lo {
		if e.hi[i] >= e.lo[i] {
			best = math.Max(best, e.hi[i]-e.lo[i])
		}
	}
	return best
}

func (e *Extent) Reset() {
	e.lo = e.lo[:0]
	e.hi = e.hi[:0]
}
