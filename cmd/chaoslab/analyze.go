package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/metrics"
)

const maxLyapunovSteps = 10000

var (
	bifParam     string
	bifMin       float64
	bifMax       float64
	bifSteps     int
	bifIndex     int
	bifTransient int
	bifRecord    int
)

type bifurcationRange struct {
	param    string
	min, max float64
}

var bifurcationDefaults = map[string]bifurcationRange{
	"logistic": {"r", 2.5, 4.0},
	"henon":    {"a", 1.0, 1.4},
	"ikeda":    {"u", 0.3, 0.95},
	"lorenz":   {"rho", 25, 35},
	"rossler":  {"c", 2, 6},
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the largest Lyapunov exponent and dominant frequency of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
}

func newBifurcationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bifurcation [system]",
		Short: "sweep a parameter and draw the bifurcation diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bifurcationPlot,
	}
	cmd.Flags().StringVar(&bifParam, "param", "", "parameter to sweep (default per system)")
	cmd.Flags().Float64Var(&bifMin, "min", 0, "sweep start")
	cmd.Flags().Float64Var(&bifMax, "max", 0, "sweep end")
	cmd.Flags().IntVar(&bifSteps, "steps", 200, "number of parameter values")
	cmd.Flags().IntVar(&bifIndex, "index", 0, "state component to record")
	cmd.Flags().IntVar(&bifTransient, "transient", 500, "iterations discarded before recording")
	cmd.Flags().IntVar(&bifRecord, "record", 200, "iterations recorded per parameter value")
	return cmd
}

// paramOverrides widens stored parameters back into raw overrides.
func paramOverrides(p dynamo.Params) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}

	sys, fellBack := registry.Resolve(meta.System)
	if fellBack {
		return fmt.Errorf("run %s: %w: %s", meta.ID, dynamo.ErrUnknownSystem, meta.System)
	}
	if meta.Integrator != "" {
		if sys, err = registry.WithIntegrator(sys, meta.Integrator); err != nil {
			return err
		}
	}

	fmt.Printf("analysis: %s (%s)\n", meta.ID, meta.System)
	fmt.Println("---")

	n := min(meta.Steps, maxLyapunovSteps)
	lambda := analysis.LyapunovExponent(sys, paramOverrides(meta.Params), meta.InitialState, n, 1e-8)
	fmt.Printf("largest lyapunov exponent: %.4f\n", lambda)
	switch {
	case lambda > 0.01:
		fmt.Println("  -> chaotic")
	case lambda < -0.01:
		fmt.Println("  -> converging")
	default:
		fmt.Println("  -> marginal")
	}

	if sys.Dim() > 1 {
		spectrum := analysis.LyapunovSpectrum(sys, paramOverrides(meta.Params), meta.InitialState, n, 1e-8)
		fmt.Print("per-direction exponents:")
		for i, v := range spectrum {
			fmt.Printf(" x%d=%.4f", i, v)
		}
		fmt.Println()
	}

	sampleRate := 1.0
	if dt, ok := meta.Params["dt"]; ok && dt > 0 {
		sampleRate = 1 / dt
	}
	fmt.Println()
	for i := 0; i < series.Dim(); i++ {
		freq := analysis.DominantFrequency(series.Column(i), sampleRate)
		fmt.Printf("dominant frequency x%d: %.4f\n", i, freq)
	}

	fmt.Println("\nmetrics:")
	printMetrics(metrics.Evaluate(series, metrics.Default()...))
	return nil
}

func bifurcationPlot(cmd *cobra.Command, args []string) error {
	name := chaos.DefaultSystem
	if len(args) > 0 {
		name = args[0]
	}
	warnFallback(name)
	sys, _ := registry.Resolve(name)

	r, ok := bifurcationDefaults[sys.Name()]
	flags := cmd.Flags()
	if flags.Changed("param") {
		r.param = bifParam
	}
	if flags.Changed("min") {
		r.min = bifMin
	}
	if flags.Changed("max") {
		r.max = bifMax
	}
	if r.param == "" {
		return fmt.Errorf("no default sweep for %s, set --param", sys.Name())
	}
	if _, known := sys.DefaultParams()[r.param]; !known {
		return fmt.Errorf("%w: %s has no parameter %q (have %v)", dynamo.ErrUnknownParam, sys.Name(), r.param, sys.DefaultParams().Names())
	}
	if !ok && !(flags.Changed("min") && flags.Changed("max")) {
		return fmt.Errorf("set --min and --max for %s", sys.Name())
	}

	logger.Debug("sweeping", "system", sys.Name(), "param", r.param, "min", r.min, "max", r.max, "steps", bifSteps)
	points, err := analysis.Bifurcation(context.Background(), sys, r.param, r.min, r.max, bifSteps, bifIndex, nil, bifTransient, bifRecord)
	if err != nil {
		return err
	}

	fmt.Printf("bifurcation: %s, %s in [%g, %g], x%d\n\n", sys.Name(), r.param, r.min, r.max, bifIndex)
	fmt.Println(analysis.BifurcationToASCII(points, 80, 30))
	return nil
}
