// Package metrics summarizes trajectories into scalar observations that are
// stored with each run.
package metrics

import "github.com/san-kum/chaoslab/internal/dynamo"

// Default returns a fresh set of the standard run metrics.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewStability(DefaultBound),
		NewFinite(),
		NewExtent(),
	}
}

// Evaluate resets each metric, feeds it every state of the series in order
// and collects the values by metric name.
func Evaluate(series dynamo.Series, ms ...dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, x := range series {
			m.Observe(x, i)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
