package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/storage"
)

const scenarioYAML = `
name: sweep-r
description: logistic at three growth rates
steps:
  - system: logistic
    n: 50
    params: {r: 2.8}
  - system: logistic
    n: "50"
    params: {r: 3.5}
  - system: nonsense
    n: 10
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "sweep-r", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "logistic", s.Steps[0].System)

	_, err = ParseScenario([]byte("name: empty\n"))
	assert.ErrorIs(t, err, ErrEmptyScenario)

	_, err = ParseScenario([]byte("steps: [\n"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	s, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)

	st := storage.New(t.TempDir())
	require.NoError(t, st.Init())

	results, err := RunScenario(context.Background(), s, chaos.NewRegistry(), st)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "logistic", results[0].Run.System)
	assert.Equal(t, 50, results[1].Run.Steps)
	assert.InDelta(t, 3.5, results[1].Run.Params["r"], 1e-12)
	assert.True(t, results[2].FellBack)
	assert.Equal(t, chaos.DefaultSystem, results[2].Run.System)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRunScenarioCanceled(t *testing.T) {
	s, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunScenario(ctx, s, chaos.NewRegistry(), storage.New(t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRunMonteCarlo(t *testing.T) {
	cfg := MonteCarloConfig{
		System:       "logistic",
		BaseState:    0.2,
		Perturbation: 1e-6,
		Trials:       8,
		N:            200,
		Seed:         7,
	}
	reg := chaos.NewRegistry()

	results, err := RunMonteCarlo(context.Background(), cfg, reg)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for i, r := range results {
		assert.Equal(t, i, r.Trial)
		assert.Len(t, r.FinalState, 1)
		assert.True(t, r.Stable)
		assert.InDelta(t, 0.2, r.InitState[0], 1e-6)
	}

	stable, unstable, mean := MonteCarloStats(results)
	assert.Equal(t, 8, stable)
	assert.Zero(t, unstable)
	// r=3.9 is chaotic: a micro perturbation grows to order one.
	assert.Greater(t, mean, 1e-3)

	again, err := RunMonteCarlo(context.Background(), cfg, reg)
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestRunMonteCarloDegenerate(t *testing.T) {
	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{System: "henon", Trials: 0, N: 10}, chaos.NewRegistry())
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = RunMonteCarlo(context.Background(), MonteCarloConfig{System: "lorenz", Integrator: "leapfrog", Trials: 1}, chaos.NewRegistry())
	assert.Error(t, err)
}

func TestMonteCarloStats(t *testing.T) {
	stable, unstable, mean := MonteCarloStats([]MonteCarloResult{
		{Stable: true, Divergence: 1},
		{Stable: false, Divergence: 3},
	})
	assert.Equal(t, 1, stable)
	assert.Equal(t, 1, unstable)
	assert.InDelta(t, 2.0, mean, 1e-12)
}
