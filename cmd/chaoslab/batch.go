package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/automation"
	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/optim"
	"github.com/san-kum/chaoslab/internal/storage"
)

var (
	mcTrials       int
	mcPerturbation float64
	mcSeed         int64
	mcN            int

	searchAxes     []string
	searchMetric   string
	searchMaximize bool
	searchN        int
)

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file>",
		Short: "run every step of a YAML scenario and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [system]",
		Short: "measure how far perturbed initial states drift apart",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	cmd.Flags().IntVar(&mcTrials, "trials", 100, "number of perturbed runs")
	cmd.Flags().Float64Var(&mcPerturbation, "perturbation", 1e-6, "largest per-component offset")
	cmd.Flags().Int64Var(&mcSeed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&mcN, "n", 5000, "steps per run")
	cmd.Flags().StringArrayVar(&genParams, "param", nil, "parameter override k=v (repeatable)")
	cmd.Flags().StringVar(&genInit, "init", "", "base initial state, comma separated")
	cmd.Flags().StringVar(&genIntegrator, "integrator", "", "integrator for flows (euler, rk4)")
	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [system]",
		Short: "grid-search parameters for the most or least chaotic behavior",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	cmd.Flags().StringArrayVar(&searchAxes, "grid", nil, "axis name=lo:hi:n or name=v1,v2 (repeatable)")
	cmd.Flags().StringVar(&searchMetric, "metric", "lyapunov", "objective: lyapunov or a run metric name")
	cmd.Flags().BoolVar(&searchMaximize, "maximize", false, "pick the largest score")
	cmd.Flags().IntVar(&searchN, "n", 5000, "steps per evaluation")
	return cmd
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	logger.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, registry, st)
	for _, r := range results {
		if r.FellBack {
			logger.Warn("unknown system, using default", "step", r.Step, "system", r.Run.System)
		}
		fmt.Printf("step %d: %s (%s, %d steps)\n", r.Step, r.Run.ID, r.Run.System, r.Run.Steps)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	system := chaos.DefaultSystem
	if len(args) > 0 {
		system = args[0]
	}
	warnFallback(system)

	params, err := parseParams(genParams)
	if err != nil {
		return err
	}

	ctx, stop := interruptContext()
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		System:       system,
		Params:       params,
		BaseState:    splitList(genInit),
		Integrator:   genIntegrator,
		Perturbation: mcPerturbation,
		Trials:       mcTrials,
		N:            mcN,
		Seed:         mcSeed,
	}, registry)
	if err != nil {
		return err
	}

	stable, unstable, mean := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d (stable %d, unstable %d)\n", len(results), stable, unstable)
	fmt.Printf("mean divergence after %d steps: %.6g\n", mcN, mean)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	system := chaos.DefaultSystem
	if len(args) > 0 {
		system = args[0]
	}
	warnFallback(system)
	sys, _ := registry.Resolve(system)

	if len(searchAxes) == 0 {
		return fmt.Errorf("set at least one --grid axis (parameters: %s)", strings.Join(sys.DefaultParams().Names(), ", "))
	}
	axes := make([]optim.Axis, 0, len(searchAxes))
	for _, s := range searchAxes {
		axis, err := optim.ParseAxis(s)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
	}

	var objective optim.Objective
	if searchMetric == "lyapunov" {
		objective = optim.LyapunovObjective(sys, nil, searchN)
	} else {
		objective = optim.MetricObjective(registry, experiment.Config{System: sys.Name(), N: searchN}, searchMetric)
	}

	g := optim.NewGridSearch(axes...)
	g.Maximize = searchMaximize

	ctx, stop := interruptContext()
	defer stop()

	best, evals, err := g.Search(ctx, objective)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	names := make([]string, 0, len(best.Params))
	for k := range best.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(searchMetric))
	for _, e := range evals {
		for _, k := range names {
			fmt.Fprintf(w, "%.4f\t", e.Params[k])
		}
		fmt.Fprintf(w, "%.6f\n", e.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6f at", searchMetric, best.Score)
	for _, k := range names {
		fmt.Printf(" %s=%g", k, best.Params[k])
	}
	fmt.Println()
	return nil
}
