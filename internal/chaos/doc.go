// Package chaos is the total front door to the chaotic systems.
//
// [Guard] composes the coercion layer around a [dynamo.Map]: inputs are
// normalized to the system dimension, parameter overrides that fail numeric
// conversion keep their defaults, and a step that reports an error yields
// the system's default state. The guarded step functions and trajectory
// drivers therefore never fail:
//
//	next := chaos.LorenzStep([]any{1, "1", 1}, map[string]any{"rho": 99.96})
//	series := chaos.Henon(1000, nil, nil)
//
// [Registry] maps system identifiers to guarded systems. Lookup is strict;
// Resolve falls back to [DefaultSystem] for unknown names.
package chaos
