package chaos

import (
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/physics"
)

// Per-system entry points. Each step function accepts any state-like value
// and optional parameter overrides; each driver additionally takes the
// iteration count and the initial state.

func LorenzStep(state any, params map[string]any) dynamo.State {
	return Guard(physics.NewLorenz()).Step(state, params)
}

func Lorenz(n any, params map[string]any, init any) dynamo.Series {
	return Guard(physics.NewLorenz()).Trajectory(n, params, init)
}

func RosslerStep(state any, params map[string]any) dynamo.State {
	return Guard(physics.NewRossler()).Step(state, params)
}

func Rossler(n any, params map[string]any, init any) dynamo.Series {
	return Guard(physics.NewRossler()).Trajectory(n, params, init)
}

func HenonStep(state any, params map[string]any) dynamo.State {
	return Guard(physics.NewHenon()).Step(state, params)
}

func Henon(n any, params map[string]any, init any) dynamo.Series {
	return Guard(physics.NewHenon()).Trajectory(n, params, init)
}

func LogisticStep(state any, params map[string]any) dynamo.State {
	return Guard(physics.NewLogistic()).Step(state, params)
}

func Logistic(n any, params map[string]any, init any) dynamo.Series {
	return Guard(physics.NewLogistic()).Trajectory(n, params, init)
}

func IkedaStep(state any, params map[string]any) dynamo.State {
	return Guard(physics.NewIkeda()).Step(state, params)
}

func Ikeda(n any, params map[string]any, init any) dynamo.Series {
	return Guard(physics.NewIkeda()).Trajectory(n, params, init)
}
