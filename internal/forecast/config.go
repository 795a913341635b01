package forecast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

var ErrUnknownMethod = errors.New("forecast: unknown method")

// Forecaster continues a trajectory past its last state.
type Forecaster interface {
	Generate(warmup dynamo.Series, steps int) (dynamo.Series, error)
}

// Methods lists the accepted values of ForecastConfig.Method.
var Methods = []string{"esn", "node"}

// FromConfig overlays the set fields of a config file section on the
// defaults.
func FromConfig(c config.ForecastConfig) Config {
	cfg := DefaultConfig()
	if c.Reservoir > 0 {
		cfg.Reservoir = c.Reservoir
	}
	if c.SpectralRadius > 0 {
		cfg.SpectralRadius = c.SpectralRadius
	}
	if c.Leak > 0 {
		cfg.Leak = c.Leak
	}
	if c.Washout > 0 {
		cfg.Washout = c.Washout
	}
	if c.Ridge > 0 {
		cfg.Ridge = c.Ridge
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	return cfg
}

// NODEFromConfig overlays the set fields of a config file section on the
// neural ODE defaults.
func NODEFromConfig(c config.ForecastConfig) NODEConfig {
	cfg := DefaultNODEConfig()
	if c.Hidden > 0 {
		cfg.Hidden = c.Hidden
	}
	if c.Iterations > 0 {
		cfg.Iterations = c.Iterations
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	return cfg
}

// Fit trains the model named by c.Method on one-step-ahead pairs of
// series. An empty method selects the echo-state network.
func Fit(series dynamo.Series, c config.ForecastConfig) (Forecaster, error) {
	switch strings.ToLower(strings.TrimSpace(c.Method)) {
	case "", "esn":
		esn, err := Train(series, FromConfig(c))
		if err != nil {
			return nil, err
		}
		return esn, nil
	case "node":
		node, err := TrainNODE(series, NODEFromConfig(c))
		if err != nil {
			return nil, err
		}
		return node, nil
	}
	return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownMethod, c.Method, Methods)
}
