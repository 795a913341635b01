package config

import "sort"

type preset struct {
	n      int
	params map[string]any
	init   any
}

var presets = map[string]map[string]preset{
	"lorenz": {
		"classic":  {n: 5000, params: map[string]any{"sigma": 10.0, "rho": 28.0, "beta": 8.0 / 3.0}, init: []any{1.0, 1.0, 1.0}},
		"periodic": {n: 5000, params: map[string]any{"rho": 99.96}, init: []any{1.0, 1.0, 1.0}},
		"stable":   {n: 3000, params: map[string]any{"rho": 14.0}, init: []any{1.0, 1.0, 1.0}},
	},
	"rossler": {
		"classic": {n: 8000, params: map[string]any{"a": 0.2, "b": 0.2, "c": 5.7}, init: []any{1.0, 1.0, 1.0}},
		"funnel":  {n: 8000, params: map[string]any{"a": 0.3, "b": 0.1, "c": 14.0}, init: []any{1.0, 1.0, 1.0}},
	},
	"henon": {
		"classic":  {n: 10000, params: map[string]any{"a": 1.4, "b": 0.3}, init: []any{0.1, 0.0}},
		"periodic": {n: 2000, params: map[string]any{"a": 1.0, "b": 0.3}, init: []any{0.1, 0.0}},
	},
	"logistic": {
		"chaotic": {n: 1000, params: map[string]any{"r": 3.9}, init: 0.5},
		"period2": {n: 200, params: map[string]any{"r": 3.2}, init: 0.5},
		"edge":    {n: 2000, params: map[string]any{"r": 3.5699456}, init: 0.5},
	},
	"ikeda": {
		"classic": {n: 10000, params: map[string]any{"u": 0.9}, init: []any{0.1, 0.1}},
		"mild":    {n: 5000, params: map[string]any{"u": 0.6}, init: []any{0.1, 0.1}},
	},
}

// GetPreset returns a fresh config for the named preset of a system, or
// nil when either name is unknown.
func GetPreset(system, name string) *Config {
	systemPresets, ok := presets[system]
	if !ok {
		return nil
	}
	p, ok := systemPresets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.System = system
	cfg.N = p.n
	cfg.InitialState = p.init
	cfg.Params = make(map[string]any, len(p.params))
	for k, v := range p.params {
		cfg.Params[k] = v
	}
	return cfg
}

// ListPresets returns the sorted preset names of a system, or nil for an
// unknown system.
func ListPresets(system string) []string {
	systemPresets, ok := presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetSystems lists the systems that have presets.
func PresetSystems() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
