// Package automation runs scripted batches of trajectories: YAML
// scenarios that store one run per step, and Monte Carlo studies of how
// nearby initial states drift apart.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a named sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep describes a single run. Values are raw and go through the
// coercion layer, so a step never fails on a malformed number.
type ScenarioStep struct {
	System       string         `yaml:"system"`
	N            any            `yaml:"n"`
	Params       map[string]any `yaml:"params"`
	InitialState any            `yaml:"initial_state"`
	Integrator   string         `yaml:"integrator"`
	Precision    int            `yaml:"precision"`
}

// StepResult pairs a scenario step with the run it produced.
type StepResult struct {
	Step     int
	Run      *storage.RunMetadata
	FellBack bool
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// RunScenario executes the steps in order and stores one run per step.
// It stops at the first failing step and returns the runs saved so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *chaos.Registry, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		exp := experiment.New(experiment.Config{
			System:       step.System,
			N:            step.N,
			Params:       step.Params,
			InitialState: step.InitialState,
			Integrator:   step.Integrator,
			Precision:    step.Precision,
		}, registry)

		result, meta, err := exp.Save(ctx, st)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, StepResult{Step: i + 1, Run: meta, FellBack: result.FellBack})
	}

	return results, nil
}

// MonteCarloConfig perturbs a base state uniformly by up to Perturbation
// in every component and runs each trial N steps.
type MonteCarloConfig struct {
	System       string
	Params       map[string]any
	BaseState    any
	Integrator   string
	Perturbation float64
	Trials       int
	N            any
	Seed         int64
	// Bound marks a trial unstable once any component exceeds it.
	Bound float64
}

type MonteCarloResult struct {
	Trial      int
	InitState  dynamo.State
	FinalState dynamo.State
	// Divergence is the distance between this trial's final state and
	// the final state of the unperturbed run.
	Divergence float64
	Stable     bool
}

// RunMonteCarlo runs the unperturbed reference and Trials perturbed copies
// in parallel. Results are in trial order; a fixed Seed reproduces them.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, registry *chaos.Registry) ([]MonteCarloResult, error) {
	sys, _ := registry.Resolve(cfg.System)
	sys, err := registry.WithIntegrator(sys, cfg.Integrator)
	if err != nil {
		return nil, err
	}
	c := sys.Configure(cfg.Params)
	base, _ := c.Normalize(cfg.BaseState)
	steps := coerce.Count(cfg.N)
	bound := cfg.Bound
	if bound <= 0 {
		bound = 1e6
	}

	reference, _, err := c.TrajectoryContext(ctx, steps, nil, base)
	if err != nil {
		return nil, err
	}
	refFinal := final(reference, base)

	rng := rand.New(rand.NewSource(cfg.Seed))
	inits := make([]dynamo.State, max(cfg.Trials, 0))
	for i := range inits {
		x := base.Clone()
		for j := range x {
			x[j] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		}
		inits[i] = x
	}

	return dynamo.Sweep(ctx, len(inits), 0, func(ctx context.Context, i int) (MonteCarloResult, error) {
		series, _, err := c.TrajectoryContext(ctx, steps, nil, inits[i])
		if err != nil {
			return MonteCarloResult{}, err
		}
		last := final(series, inits[i])
		return MonteCarloResult{
			Trial:      i,
			InitState:  inits[i],
			FinalState: last,
			Divergence: last.Sub(refFinal).Norm(),
			Stable:     bounded(series, bound),
		}, nil
	})
}

func final(series dynamo.Series, init dynamo.State) dynamo.State {
	if last := series.Last(); last != nil {
		return last.Clone()
	}
	return init.Clone()
}

func bounded(series dynamo.Series, bound float64) bool {
	for _, x := range series {
		for _, v := range x {
			if math.IsNaN(v) || math.Abs(v) > bound {
				return false
			}
		}
	}
	return true
}

// MonteCarloStats counts stable trials and averages the divergence of the
// finite ones.
func MonteCarloStats(results []MonteCarloResult) (stable, unstable int, meanDivergence float64) {
	n := 0
	for _, r := range results {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
		if !math.IsNaN(r.Divergence) && !math.IsInf(r.Divergence, 0) {
			meanDivergence += r.Divergence
			n++
		}
	}
	if n > 0 {
		meanDivergence /= float64(n)
	}
	return stable, unstable, meanDivergence
}
