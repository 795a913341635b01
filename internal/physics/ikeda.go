package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Ikeda is the optical-ring-cavity map. It uses exact trigonometry; a
// table lookup would drift the trajectory within a few hundred steps.
type Ikeda struct{ U float64 }

func NewIkeda() *Ikeda                      { return &Ikeda{U: 0.9} }
func (k *Ikeda) Name() string               { return "ikeda" }
func (k *Ikeda) Dim() int                   { return 2 }
func (k *Ikeda) DefaultState() dynamo.State { return dynamo.State{0.1, 0.1} }

func (k *Ikeda) Step(s dynamo.State) (dynamo.State, error) {
	if len(s) != 2 {
		return nil, dimensionError("ikeda", s)
	}
	x, y := s[0], s[1]
	t := 0.4 - 6.0/(1.0+x*x+y*y)
	sin, cos := math.Sincos(t)
	return dynamo.State{1.0 + k.U*(x*cos-y*sin), k.U * (x*sin + y*cos)}, nil
}

func (k *Ikeda) GetParams() dynamo.Params {
	return dynamo.Params{"u": k.U}
}

func (k *Ikeda) SetParam(n string, v float64) error {
	if n != "u" {
		return fmt.Errorf("ikeda: %w: %s", dynamo.ErrUnknownParam, n)
	}
	k.U = v
	return nil
}

func (k *Ikeda) WithParams(p dynamo.Params) dynamo.Map {
	c := *k
	applyParams(&c, p)
	return &c
}
