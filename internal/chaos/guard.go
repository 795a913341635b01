package chaos

import (
	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Guarded wraps a step function so that it is total: any input, however
// malformed, yields a state of the system's dimension.
type Guarded struct {
	sys dynamo.Map
}

// Guard composes the coercion layer around sys.
func Guard(sys dynamo.Map) Guarded {
	return Guarded{sys: sys}
}

func (g Guarded) System() dynamo.Map { return g.sys }
func (g Guarded) Name() string       { return g.sys.Name() }
func (g Guarded) Dim() int           { return g.sys.Dim() }

// DefaultState returns a fresh copy of the system's default initial state.
func (g Guarded) DefaultState() dynamo.State { return g.sys.DefaultState().Clone() }

// DefaultParams returns the parameter set of the wrapped system.
func (g Guarded) DefaultParams() dynamo.Params { return g.sys.GetParams() }

// Normalize coerces an arbitrary initial state against the system default.
func (g Guarded) Normalize(input any) (dynamo.State, coerce.Outcome) {
	return coerce.State(input, g.sys.DefaultState())
}

// Configure applies coerced parameter overrides and returns the result.
func (g Guarded) Configure(overrides map[string]any) Guarded {
	if len(overrides) == 0 {
		return g
	}
	return Guarded{sys: g.sys.WithParams(coerce.Params(overrides, g.sys.GetParams()))}
}

// Step normalizes input, advances one step with the given overrides and
// normalizes the result. It never fails.
func (g Guarded) Step(input any, overrides map[string]any) dynamo.State {
	c := g.Configure(overrides)
	x, _ := c.Normalize(input)
	next, _ := c.Advance(x)
	return next
}

// Advance steps an already normalized state. A failing step takes the
// fallback branch and yields the default state with a Defaulted outcome.
func (g Guarded) Advance(x dynamo.State) (dynamo.State, coerce.Outcome) {
	next, err := g.sys.Step(x)
	if err != nil {
		return g.fallback(), coerce.Defaulted
	}
	return coerce.Fit(next, g.sys.DefaultState())
}

func (g Guarded) fallback() dynamo.State {
	return g.sys.DefaultState().Clone()
}
