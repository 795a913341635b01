package physics

import (
	"fmt"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Henon is the two-dimensional quadratic map.
type Henon struct{ A, B float64 }

func NewHenon() *Henon                      { return &Henon{A: 1.4, B: 0.3} }
func (h *Henon) Name() string               { return "henon" }
func (h *Henon) Dim() int                   { return 2 }
func (h *Henon) DefaultState() dynamo.State { return dynamo.State{0.1, 0.0} }

func (h *Henon) Step(s dynamo.State) (dynamo.State, error) {
	if len(s) != 2 {
		return nil, dimensionError("henon", s)
	}
	x, y := s[0], s[1]
	return dynamo.State{1.0 - h.A*x*x + y, h.B * x}, nil
}

func (h *Henon) GetParams() dynamo.Params {
	return dynamo.Params{"a": h.A, "b": h.B}
}

func (h *Henon) SetParam(n string, v float64) error {
	switch n {
	case "a":
		h.A = v
	case "b":
		h.B = v
	default:
		return fmt.Errorf("henon: %w: %s", dynamo.ErrUnknownParam, n)
	}
	return nil
}

func (h *Henon) WithParams(p dynamo.Params) dynamo.Map {
	c := *h
	applyParams(&c, p)
	return &c
}
