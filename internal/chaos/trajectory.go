package chaos

import (
	"context"

	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Coercions counts how often each coercion branch fired during a run.
type Coercions struct {
	Initial   coerce.Outcome
	Fallbacks int
}

// Trajectory iterates the guarded step n times from init. The returned
// series holds the n post-step states; init itself is not included.
func (g Guarded) Trajectory(n any, overrides map[string]any, init any) dynamo.Series {
	series, _ := g.TrajectoryReport(n, overrides, init)
	return series
}

// TrajectoryReport is Trajectory plus a record of the coercions applied.
func (g Guarded) TrajectoryReport(n any, overrides map[string]any, init any) (dynamo.Series, Coercions) {
	series, report, _ := g.TrajectoryContext(context.Background(), n, overrides, init)
	return series, report
}

const cancelCheckInterval = 4096

// TrajectoryContext is TrajectoryReport that stops early when ctx is done.
// On cancellation it returns the states computed so far and ctx.Err().
func (g Guarded) TrajectoryContext(ctx context.Context, n any, overrides map[string]any, init any) (dynamo.Series, Coercions, error) {
	c := g.Configure(overrides)
	steps := coerce.Count(n)

	x, outcome := c.Normalize(init)
	report := Coercions{Initial: outcome}

	series := make(dynamo.Series, 0, min(steps, 1<<20))
	for i := 0; i < steps; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return series, report, err
			}
		}
		next, o := c.Advance(x)
		if o == coerce.Defaulted {
			report.Fallbacks++
		}
		series = append(series, next)
		x = next
	}
	return series, report, nil
}
