package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/metrics"
	"github.com/san-kum/chaoslab/internal/storage"
)

var (
	genN          int
	genParams     []string
	genInit       string
	genOut        string
	genPrecision  int
	genIntegrator string
	configFile    string
	preset        string
	genBound      float64
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [system]",
		Short: "generate and store a trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGenerate,
	}
	cmd.Flags().IntVar(&genN, "n", config.DefaultSteps, "number of steps")
	cmd.Flags().StringArrayVar(&genParams, "param", nil, "parameter override k=v (repeatable)")
	cmd.Flags().StringVar(&genInit, "init", "", "initial state, comma separated")
	cmd.Flags().StringVar(&genOut, "out", "", "also write the series to this CSV file")
	cmd.Flags().IntVar(&genPrecision, "precision", config.DefaultPrecision, "decimal places in CSV output")
	cmd.Flags().StringVar(&genIntegrator, "integrator", config.DefaultIntegrator, "integrator for flows (euler, rk4)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&genBound, "bound", metrics.DefaultBound, "magnitude beyond which the stability metric counts a state as escaped")
	return cmd
}

// loadConfig builds the run config: defaults, then preset, then config
// file, then explicitly set flags.
func loadConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if system == "" {
			system = cfg.System
		}
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if system != "" {
		cfg.System = system
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	system := ""
	if len(args) > 0 {
		system = args[0]
	}
	cfg, err := loadConfig(cmd, system)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.N = genN
	}
	if flags.Changed("integrator") {
		cfg.Integrator = genIntegrator
	}
	if flags.Changed("precision") {
		cfg.Precision = genPrecision
	}
	if flags.Changed("init") {
		cfg.InitialState = splitList(genInit)
	}
	if len(genParams) > 0 {
		overrides, err := parseParams(genParams)
		if err != nil {
			return err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]any)
		}
		for k, v := range overrides {
			cfg.Params[k] = v
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger.Debug("generating", "system", cfg.System, "n", cfg.N, "params", cfg.Params)
	exp := experiment.New(experiment.FromConfig(cfg), registry)
	if flags.Changed("bound") {
		exp.AddMetric(metrics.NewStability(genBound))
	}
	result, meta, err := exp.Save(context.Background(), st)
	if err != nil {
		return err
	}
	if result.FellBack {
		logger.Warn("unknown system, using default", "requested", result.Requested, "system", result.System)
	}
	if result.Coercions.Fallbacks > 0 {
		logger.Warn("steps fell back to the default state", "count", result.Coercions.Fallbacks)
	}

	if genOut != "" {
		if err := storage.WriteFile(genOut, result.Series, meta.Precision); err != nil {
			return err
		}
		logger.Info("wrote series", "path", genOut)
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("steps: %d\n", meta.Steps)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

// parseParams splits k=v pairs. Values stay text; the coercion layer
// decides what they mean.
func parseParams(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", pair)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func splitList(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
