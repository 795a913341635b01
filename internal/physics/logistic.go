package physics

import (
	"fmt"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// DefaultLogisticR sits in the chaotic regime of the logistic map.
const DefaultLogisticR = 3.9

// Logistic is the one-dimensional map x' = r*x*(1-x).
type Logistic struct{ R float64 }

func NewLogistic() *Logistic                   { return &Logistic{R: DefaultLogisticR} }
func (l *Logistic) Name() string               { return "logistic" }
func (l *Logistic) Dim() int                   { return 1 }
func (l *Logistic) DefaultState() dynamo.State { return dynamo.State{0.5} }

func (l *Logistic) Step(s dynamo.State) (dynamo.State, error) {
	if len(s) != 1 {
		return nil, dimensionError("logistic", s)
	}
	return dynamo.State{l.R * s[0] * (1.0 - s[0])}, nil
}

func (l *Logistic) GetParams() dynamo.Params {
	return dynamo.Params{"r": l.R}
}

func (l *Logistic) SetParam(n string, v float64) error {
	if n != "r" {
		return fmt.Errorf("logistic: %w: %s", dynamo.ErrUnknownParam, n)
	}
	l.R = v
	return nil
}

func (l *Logistic) WithParams(p dynamo.Params) dynamo.Map {
	c := *l
	applyParams(&c, p)
	return &c
}
