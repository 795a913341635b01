package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

var factories = map[string]func() dynamo.Integrator{
	"euler": func() dynamo.Integrator { return NewEuler() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
}

// Get returns the integrator registered under name. An empty name selects Euler.
func Get(name string) (dynamo.Integrator, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "euler"
	}
	fn, ok := factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}
