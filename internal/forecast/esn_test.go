package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Reservoir = 60
	cfg.Washout = 20
	return cfg
}

func trajectory(t *testing.T, name string, n int) dynamo.Series {
	t.Helper()
	sys, err := chaos.NewRegistry().Lookup(name)
	require.NoError(t, err)
	return sys.Trajectory(n, nil, nil)
}

func meanSquare(s dynamo.Series) float64 {
	sum, count := 0.0, 0
	for _, x := range s {
		for _, v := range x {
			sum += v * v
			count++
		}
	}
	return sum / float64(count)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500, cfg.Reservoir)
	assert.Equal(t, 0.9, cfg.SpectralRadius)
	assert.Equal(t, 0.3, cfg.Leak)
	assert.Equal(t, 100, cfg.Washout)
	assert.Equal(t, 1e-6, cfg.Ridge)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestNew_Deterministic(t *testing.T) {
	a, err := New(2, smallConfig())
	require.NoError(t, err)
	b, err := New(2, smallConfig())
	require.NoError(t, err)
	assert.Equal(t, a.w.RawMatrix().Data, b.w.RawMatrix().Data)
	assert.Equal(t, a.win.RawMatrix().Data, b.win.RawMatrix().Data)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(0, smallConfig())
	assert.Error(t, err)
}

func TestFit_LearnsHenon(t *testing.T) {
	series := trajectory(t, "henon", 400)
	esn, err := Train(series, smallConfig())
	require.NoError(t, err)
	require.True(t, esn.Fitted())

	u, y := series[:len(series)-1], series[1:]
	pred, err := esn.Predict(u)
	require.NoError(t, err)
	require.Len(t, pred, len(u))
	assert.Equal(t, dynamo.State{0, 0}, pred[0])

	washout := smallConfig().Washout
	var residual dynamo.Series
	for i := washout; i < len(y); i++ {
		residual = append(residual, pred[i].Sub(y[i]))
	}
	assert.Less(t, meanSquare(residual), meanSquare(y[washout:]))
}

func TestFit_Errors(t *testing.T) {
	esn, err := New(2, smallConfig())
	require.NoError(t, err)

	short := dynamo.Series{{1, 2}, {3, 4}}
	assert.ErrorIs(t, esn.Fit(short, short), dynamo.ErrInsufficientData)
	assert.ErrorIs(t, esn.Fit(short, short[:1]), dynamo.ErrDimensionMismatch)

	wide := trajectory(t, "lorenz", 100)
	assert.ErrorIs(t, esn.Fit(wide, wide), dynamo.ErrDimensionMismatch)
}

func TestPredict_NotFitted(t *testing.T) {
	esn, err := New(1, smallConfig())
	require.NoError(t, err)
	_, err = esn.Predict(dynamo.Series{{0.5}})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = esn.Generate(dynamo.Series{{0.5}}, 3)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestGenerate(t *testing.T) {
	series := trajectory(t, "logistic", 300)
	esn, err := Train(series, smallConfig())
	require.NoError(t, err)

	out, err := esn.Generate(series[:50], 25)
	require.NoError(t, err)
	assert.Len(t, out, 25)
	for _, x := range out {
		assert.Len(t, x, 1)
	}

	_, err = esn.Generate(nil, 5)
	assert.ErrorIs(t, err, dynamo.ErrInsufficientData)
}

func TestTrain_TooShort(t *testing.T) {
	_, err := Train(dynamo.Series{{1}}, smallConfig())
	assert.ErrorIs(t, err, dynamo.ErrInsufficientData)
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.ForecastConfig{Reservoir: 80, Leak: 0.5})
	assert.Equal(t, 80, cfg.Reservoir)
	assert.Equal(t, 0.5, cfg.Leak)
	assert.Equal(t, 0.9, cfg.SpectralRadius)
	assert.Equal(t, int64(42), cfg.Seed)
}
