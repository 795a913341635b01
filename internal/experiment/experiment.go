package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/metrics"
	"github.com/san-kum/chaoslab/internal/storage"
)

// Config describes one trajectory run. N, Params and InitialState are raw
// and go through the coercion layer.
type Config struct {
	System       string
	N            any
	Params       map[string]any
	InitialState any
	Integrator   string
	Precision    int
}

// FromConfig extracts the run description from a loaded config file.
func FromConfig(c *config.Config) Config {
	return Config{
		System:       c.System,
		N:            c.N,
		Params:       c.Params,
		InitialState: c.InitialState,
		Integrator:   c.Integrator,
		Precision:    c.Precision,
	}
}

type Result struct {
	// System is the canonical name actually run.
	System string
	// Requested is the system name the caller asked for.
	Requested    string
	FellBack     bool
	Integrator   string
	Params       dynamo.Params
	InitialState dynamo.State
	Series       dynamo.Series
	Coercions    chaos.Coercions
	Metrics      map[string]float64
	Elapsed      time.Duration
}

type Experiment struct {
	cfg      Config
	registry *chaos.Registry
	metrics  []dynamo.Metric
}

func New(cfg Config, registry *chaos.Registry) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		metrics:  metrics.Default(),
	}
}

// AddMetric adds m to the metrics evaluated after the run. A metric with
// the name of an earlier one replaces its value in Result.Metrics.
func (e *Experiment) AddMetric(m dynamo.Metric) { e.metrics = append(e.metrics, m) }

// Run resolves the system, falling back to the default one for unknown
// names, and iterates it. Only an unknown integrator or a done context
// makes it fail.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	sys, fellBack := e.registry.Resolve(e.cfg.System)

	sys, err := e.registry.WithIntegrator(sys, e.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	configured := sys.Configure(e.cfg.Params)
	x0, outcome := configured.Normalize(e.cfg.InitialState)

	start := time.Now()
	series, report, err := configured.TrajectoryContext(ctx, e.cfg.N, nil, x0)
	if err != nil {
		return nil, fmt.Errorf("%s trajectory: %w", sys.Name(), err)
	}
	report.Initial = outcome

	integ := e.cfg.Integrator
	if integ == "" {
		integ = config.DefaultIntegrator
	}

	return &Result{
		System:       sys.Name(),
		Requested:    e.cfg.System,
		FellBack:     fellBack,
		Integrator:   integ,
		Params:       configured.DefaultParams(),
		InitialState: x0,
		Series:       series,
		Coercions:    report,
		Metrics:      metrics.Evaluate(series, e.metrics...),
		Elapsed:      time.Since(start),
	}, nil
}

// Metadata is the storage record for r.
func (r *Result) Metadata(precision int) storage.RunMetadata {
	return storage.RunMetadata{
		System:       r.System,
		Params:       r.Params,
		InitialState: r.InitialState,
		Integrator:   r.Integrator,
		Precision:    precision,
		Metrics:      r.Metrics,
	}
}

// Save runs the experiment and stores the result as a new run.
func (e *Experiment) Save(ctx context.Context, st *storage.Store) (*Result, *storage.RunMetadata, error) {
	result, err := e.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Save(result.Metadata(e.cfg.Precision), result.Series)
	if err != nil {
		return nil, nil, fmt.Errorf("save run: %w", err)
	}
	return result, meta, nil
}
