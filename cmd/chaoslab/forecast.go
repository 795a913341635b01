package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/forecast"
	"github.com/san-kum/chaoslab/internal/storage"
)

var (
	fcSteps      int
	fcReservoir  int
	fcMethod     string
	fcHidden     int
	fcIterations int
)

func newForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast [run_id]",
		Short: "train a forecasting model on a run and continue it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runForecast,
	}
	cmd.Flags().IntVar(&fcSteps, "steps", config.DefaultForecastSteps, "states to generate past the end of the run")
	cmd.Flags().StringVar(&fcMethod, "method", config.DefaultForecastMethod, "model: esn (echo state network) or node (neural ODE)")
	cmd.Flags().IntVar(&fcReservoir, "reservoir", config.DefaultReservoir, "reservoir size (esn)")
	cmd.Flags().IntVar(&fcHidden, "hidden", config.DefaultHidden, "hidden units of the vector field (node)")
	cmd.Flags().IntVar(&fcIterations, "iterations", config.DefaultIterations, "optimizer iterations (node)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV file (default stdout)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	return cmd
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("steps") || cfg.Forecast.Steps <= 0 {
		cfg.Forecast.Steps = fcSteps
	}
	if cmd.Flags().Changed("reservoir") || cfg.Forecast.Reservoir <= 0 {
		cfg.Forecast.Reservoir = fcReservoir
	}
	if cmd.Flags().Changed("method") || cfg.Forecast.Method == "" {
		cfg.Forecast.Method = fcMethod
	}
	if cmd.Flags().Changed("hidden") || cfg.Forecast.Hidden <= 0 {
		cfg.Forecast.Hidden = fcHidden
	}
	if cmd.Flags().Changed("iterations") || cfg.Forecast.Iterations <= 0 {
		cfg.Forecast.Iterations = fcIterations
	}

	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}

	logger.Info("training", "run", meta.ID, "states", series.Len(), "method", cfg.Forecast.Method)
	model, err := forecast.Fit(series, cfg.Forecast)
	if err != nil {
		return fmt.Errorf("train on %s: %w", meta.ID, err)
	}
	if node, ok := model.(*forecast.NODE); ok {
		stats := node.Stats()
		logger.Info("trained neural ode", "loss_before", stats.InitialLoss, "loss_after", stats.FinalLoss, "iterations", stats.Iterations)
	}
	out, err := model.Generate(series, cfg.Forecast.Steps)
	if err != nil {
		return err
	}

	precision := meta.Precision
	if precision <= 0 {
		precision = storage.DefaultPrecision
	}
	w, closeOut, err := output(outFile)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(w, out, precision); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("wrote forecast", "path", outFile, "steps", out.Len())
	}
	return nil
}
