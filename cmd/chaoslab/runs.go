package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/export"
	"github.com/san-kum/chaoslab/internal/storage"
	"github.com/san-kum/chaoslab/internal/viz"
)

var (
	xAxis     int
	yAxis     int
	poincare  bool
	crossAxis int
	crossAt   float64
	outFile string
	svgDots string
)

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "list stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot each component of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
}

func newPhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "draw a phase portrait of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  phasePlot,
	}
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "component on the x axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "component on the y axis")
	cmd.Flags().BoolVar(&poincare, "poincare", false, "plot the Poincare section instead of the full portrait")
	cmd.Flags().IntVar(&crossAxis, "cross", -1, "component whose upward crossings are recorded (default: first unplotted one)")
	cmd.Flags().Float64Var(&crossAt, "threshold", 0, "crossing level (default: mean of the crossing component)")
	return cmd
}

func newAttractorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attractor [run_id]",
		Short: "render a run as a braille scatter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  attractorPlot,
	}
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a phase portrait as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "component on the x axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "component on the y axis")
	cmd.Flags().StringVar(&svgDots, "dots", "auto", "draw points instead of a path (auto, true, false)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run with its metadata as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

// loadRun opens the run named by args, or the newest run when none is given.
func loadRun(args []string) (*storage.RunMetadata, dynamo.Series, error) {
	st := storage.New(dataDir)

	var (
		meta *storage.RunMetadata
		err  error
	)
	if len(args) > 0 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("no such run (try 'chaoslab runs'): %w", err)
		}
		return nil, nil, err
	}

	series, err := st.LoadSeries(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if series.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s: %w", meta.ID, dynamo.ErrEmptySeries)
	}
	return meta, series, nil
}

// output returns the writer for --out and a function that closes it.
func output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tSTEPS\tDIM\tINTEG")
	for _, r := range runs {
		integ := r.Integrator
		if integ == "" {
			integ = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.System, r.Timestamp.Format("2006-01-02 15:04:05"), r.Steps, r.Dim, integ)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %d steps)\n\n", meta.ID, meta.System, meta.Steps)
	for i := 0; i < series.Dim(); i++ {
		data := finiteOnly(series.Column(i))
		if len(data) == 0 {
			fmt.Printf("x%d: no finite values\n\n", i)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d", i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}
	x, y := xAxis, yAxis
	if series.Dim() == 1 && !cmd.Flags().Changed("y-axis") {
		y = 0
	}

	if poincare {
		return poincarePlot(cmd, meta, series, x, y)
	}

	portrait := analysis.PhasePortrait(series, x, y)
	if portrait == nil {
		return fmt.Errorf("%w: components %d and %d of a %d-dimensional run", dynamo.ErrDimensionMismatch, x, y, series.Dim())
	}
	fmt.Printf("phase portrait: %s (x%d vs x%d)\n\n", meta.System, x, y)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 80, 30))
	return nil
}

func poincarePlot(cmd *cobra.Command, meta *storage.RunMetadata, series dynamo.Series, x, y int) error {
	cross := crossAxis
	if cross < 0 {
		for i := 0; i < series.Dim(); i++ {
			if i != x && i != y {
				cross = i
				break
			}
		}
	}
	if cross < 0 {
		return fmt.Errorf("%w: a Poincare section needs a third component, run has %d", dynamo.ErrDimensionMismatch, series.Dim())
	}

	level := crossAt
	if !cmd.Flags().Changed("threshold") {
		level = mean(finiteOnly(series.Column(cross)))
	}

	section := analysis.PoincareSectionFromSeries(series, cross, level, x, y)
	if section == nil {
		return fmt.Errorf("%w: components %d, %d, %d of a %d-dimensional run", dynamo.ErrDimensionMismatch, cross, x, y, series.Dim())
	}
	fmt.Printf("poincare section: %s (x%d vs x%d where x%d rises through %.4g, %d crossings)\n\n",
		meta.System, x, y, cross, level, len(section.Points))
	fmt.Println(analysis.PoincareSectionToASCII(section, 80, 30))
	return nil
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func attractorPlot(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}
	fmt.Printf("%s, %d states\n", meta.System, series.Len())
	fmt.Println(viz.RenderAttractor(series, 80, 32, viz.NewCamera()))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	switch svgDots {
	case "true":
		opts.Dots = true
	case "false":
		opts.Dots = false
	default:
		if sys, fellBack := registry.Resolve(meta.System); !fellBack {
			_, isFlow := sys.System().(dynamo.Integrable)
			opts.Dots = !isFlow
		}
	}

	x, y := xAxis, yAxis
	if series.Dim() == 1 && !cmd.Flags().Changed("y-axis") {
		y = 0
	}

	w, closeOut, err := output(outFile)
	if err != nil {
		return err
	}
	if err := export.SeriesToSVG(w, series, x, y, opts); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported svg", "run", meta.ID, "path", outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args)
	if err != nil {
		return err
	}

	w, closeOut, err := output(outFile)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, series); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported json", "run", meta.ID, "path", outFile)
	}
	return nil
}

func finiteOnly(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
