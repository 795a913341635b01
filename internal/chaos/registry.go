package chaos

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/physics"
)

// DefaultSystem is used when a caller names a system nobody registered.
const DefaultSystem = "lorenz"

type Registry struct {
	systems map[string]func() dynamo.Map
	aliases map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		systems: make(map[string]func() dynamo.Map),
		aliases: make(map[string]string),
	}

	r.systems["lorenz"] = func() dynamo.Map { return physics.NewLorenz() }
	r.systems["rossler"] = func() dynamo.Map { return physics.NewRossler() }
	r.systems["henon"] = func() dynamo.Map { return physics.NewHenon() }
	r.systems["logistic"] = func() dynamo.Map { return physics.NewLogistic() }
	r.systems["ikeda"] = func() dynamo.Map { return physics.NewIkeda() }

	r.aliases["rössler"] = "rossler"
	r.aliases["hénon"] = "henon"
	r.aliases["henon_map"] = "henon"
	r.aliases["logistic_map"] = "logistic"
	r.aliases["ikeda_map"] = "ikeda"

	return r
}

func (r *Registry) canonical(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := r.aliases[key]; ok {
		return alias
	}
	return key
}

// Lookup returns the guarded system registered under name.
func (r *Registry) Lookup(name string) (Guarded, error) {
	fn, ok := r.systems[r.canonical(name)]
	if !ok {
		return Guarded{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownSystem, name)
	}
	return Guard(fn()), nil
}

// Resolve is the permissive variant of Lookup: an unknown name yields
// DefaultSystem and fellBack is true.
func (r *Registry) Resolve(name string) (sys Guarded, fellBack bool) {
	sys, err := r.Lookup(name)
	if err != nil {
		return Guard(r.systems[DefaultSystem]()), true
	}
	return sys, false
}

// WithIntegrator switches the stepping scheme of a flow. Maps are returned
// unchanged since they have no continuous time.
func (r *Registry) WithIntegrator(g Guarded, name string) (Guarded, error) {
	integ, err := integrators.Get(name)
	if err != nil {
		return g, err
	}
	flow, ok := g.sys.(dynamo.Integrable)
	if !ok {
		return g, nil
	}
	return Guard(flow.WithIntegrator(integ)), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Systems returns every registered system in name order.
func (r *Registry) Systems() []Guarded {
	names := r.Names()
	out := make([]Guarded, len(names))
	for i, name := range names {
		out[i] = Guard(r.systems[name]())
	}
	return out
}
