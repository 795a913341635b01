package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/chaos"
	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logger   *log.Logger
	registry = chaos.NewRegistry()
)

// main registers the commands and flags, opens the interactive explorer
// when no subcommand is given, and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "chaoslab",
		Short:         "chaotic systems lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(registry)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list systems with their defaults",
		Args:  cobra.NoArgs,
		RunE:  listSystems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "draw a system in the terminal as it runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			system := config.DefaultSystem
			if len(args) > 0 {
				system = args[0]
			}
			warnFallback(system)
			return viz.Run(registry, system)
		},
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		systemsCmd,
		presetsCmd,
		newRunsCmd(),
		newPlotCmd(),
		newPhaseCmd(),
		newAttractorCmd(),
		newExportSVGCmd(),
		newExportJSONCmd(),
		newAnalyzeCmd(),
		newBifurcationCmd(),
		newForecastCmd(),
		newServeCmd(),
		newScenarioCmd(),
		newMonteCarloCmd(),
		newSearchCmd(),
		liveCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func setupLogger() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "chaoslab",
	})
	return nil
}

// warnFallback logs when name is not a registered system and the default
// one will be used instead.
func warnFallback(name string) {
	if _, fellBack := registry.Resolve(name); fellBack {
		logger.Warn("unknown system, using default", "requested", name, "system", chaos.DefaultSystem)
	}
}

func listSystems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tPARAMS\tINITIAL STATE")
	for _, sys := range registry.Systems() {
		params := sys.DefaultParams()
		parts := make([]string, 0, len(params))
		for _, k := range params.Names() {
			parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%v\n", sys.Name(), sys.Dim(), strings.Join(parts, " "), sys.DefaultState())
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	systems := config.PresetSystems()
	if len(args) > 0 {
		systems = []string{args[0]}
	}
	sort.Strings(systems)

	for _, system := range systems {
		presets := config.ListPresets(system)
		if len(presets) == 0 {
			fmt.Printf("no presets for system: %s\n", system)
			continue
		}
		fmt.Printf("presets for %s:\n", system)
		for _, p := range presets {
			cfg := config.GetPreset(system, p)
			fmt.Printf("  %-10s n=%v params=%v\n", p, cfg.N, cfg.Params)
		}
	}
	return nil
}
