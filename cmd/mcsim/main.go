package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/mcsim/internal/automation"
	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/diag"
	"github.com/san-kum/mcsim/internal/experiment"
	"github.com/san-kum/mcsim/internal/export"
	"github.com/san-kum/mcsim/internal/mcmc"
	"github.com/san-kum/mcsim/internal/metrics"
	"github.com/san-kum/mcsim/internal/rng"
	"github.com/san-kum/mcsim/internal/storage"
	"github.com/san-kum/mcsim/internal/viz"
)

var (
	dataDir string
	// Run parameters, see bindRunFlags
	configFile string
	preset     string
	dim        int
	steps      int
	stepSize   float64
	seed       int64
	source     string
	ranges     []string
	params     []string
	burnIn     int
	thin       int
	chains     int
	dataFile   string
	// Output
	progress int
	quiet    bool
	noSave   bool
	workers  int
	// Trace views
	bins      int
	maxLag    int
	axis      int
	outPath   string
	svgDir    string
	trimBurn  int
	trimEvery int
	// Live view
	stepsPerFrame int
	theme         string
	// Sweep
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mcsim",
		Short:         "metropolis-hastings sampling lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [target]",
		Short: "sample a target and save the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSampler,
	}
	bindRunFlags(runCmd)
	runCmd.Flags().IntVar(&progress, "progress", 1000, "log acceptance every n steps (0 disables)")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress lines")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [target]",
		Short: "sample independent chains in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	bindRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&workers, "workers", 4, "maximum chains running at once")
	ensembleCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id|latest]",
		Short: "plot the trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&maxLag, "acf", 0, "also plot autocorrelation up to this lag")
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write SVG plots to this directory")

	histCmd := &cobra.Command{
		Use:   "hist [run_id|latest]",
		Short: "histogram of one coordinate after burn-in",
		Args:  cobra.ExactArgs(1),
		RunE:  histRun,
	}
	histCmd.Flags().IntVar(&bins, "bins", 20, "number of bins")
	histCmd.Flags().IntVar(&axis, "axis", 0, "coordinate index")
	bindTrimFlags(histCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id|latest]",
		Short: "posterior summary of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  summarizeRun,
	}
	bindTrimFlags(summaryCmd)

	exportCmd := &cobra.Command{
		Use:   "export [run_id|latest]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [target]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [target]",
		Short: "sample with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	bindRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "speed", 10, "steps per frame")
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, "color theme")

	benchCmd := &cobra.Command{
		Use:   "bench [target]",
		Short: "benchmark sampler throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchTarget,
	}
	bindRunFlags(benchCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of samplers",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [target]",
		Short: "compare acceptance and autocorrelation across a parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	bindRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param-name", "step_size", "step_size or a target parameter")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5.0, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 10, "number of values")

	rootCmd.AddCommand(runCmd, ensembleCmd, listCmd, plotCmd, histCmd, summaryCmd, exportCmd, presetsCmd, liveCmd, benchCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func bindRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&dim, "dim", config.DefaultDim, "number of dimensions")
	f.IntVarP(&steps, "steps", "n", config.DefaultSteps, "number of steps")
	f.Float64Var(&stepSize, "step-size", config.DefaultStepSize, "proposal standard deviation")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.StringVar(&source, "source", config.DefaultSource, fmt.Sprintf("random source %v", rng.Kinds()))
	f.StringArrayVar(&ranges, "range", nil, "bounds low:high, once per dimension or once for all")
	f.StringArrayVarP(&params, "param", "p", nil, "target parameter name=value")
	f.IntVar(&burnIn, "burn-in", config.DefaultBurnIn, "steps discarded before summarizing")
	f.IntVar(&thin, "thin", config.DefaultThin, "keep every k-th state when summarizing")
	f.IntVar(&chains, "chains", config.DefaultChains, "number of chains (ensemble)")
	f.StringVar(&dataFile, "data-file", "", "CSV observations for likelihood targets")
}

func bindTrimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&trimBurn, "burn-in", -1, "override stored burn-in")
	cmd.Flags().IntVar(&trimEvery, "thin", 0, "override stored thinning")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func progressMetrics() []mcmc.Metric {
	window := metrics.NewWindowAcceptance(progress)
	if progress > 0 && !quiet {
		window.OnWindow(func(step int, rate float64) {
			fmt.Printf("  step %d: acceptance %.3f\n", step, rate)
		})
	}
	return []mcmc.Metric{window, metrics.NewRejectRun(), metrics.NewRunningMean(0)}
}

func setup(cmd *cobra.Command, args []string, newMetrics func() []mcmc.Metric) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), newMetrics); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSampler(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args, progressMetrics)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sampling %s (dim=%d steps=%d step-size=%g source=%s seed=%d)...\n",
		cfg.Target, cfg.Dim, cfg.Steps, cfg.StepSize, cfg.Source, cfg.Seed)
	start := time.Now()

	result, err := exp.Run(ctx)
	elapsed := time.Since(start)
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Printf("interrupted after %d steps\n", result.Steps)
	}

	if !noSave {
		st := storage.New(dataDir)
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("accepted: %d (%.4f)\n", result.Accepts, result.AcceptanceRatio)
	printMetrics(result.Metrics)

	return printSummary(result.Trace, cfg.BurnIn, cfg.Thin)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func printSummary(trace []mcmc.State, burn, k int) error {
	if burn >= len(trace) {
		fmt.Printf("\nburn-in %d leaves no samples to summarize\n", burn)
		return nil
	}
	kept, err := diag.Prepare(trace, burn, k)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(viz.SummaryTable(diag.Summarize(kept)))
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args, metrics.Defaults)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sampling %d chains of %s (dim=%d steps=%d step-size=%g)...\n",
		cfg.Chains, cfg.Target, cfg.Dim, cfg.Steps, cfg.StepSize)
	start := time.Now()

	results, err := exp.RunEnsemble(ctx, workers)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHAIN\tSEED\tACCEPT\tMEAN(x0)\tTAU(x0)\tRUN")

	pooled := make([]mcmc.State, 0)
	for i, res := range results {
		chainCfg := cfg.Clone()
		chainCfg.Seed = cfg.Seed + int64(i)

		runID := "-"
		if !noSave {
			id, err := st.Save(chainCfg, res)
			if err != nil {
				return err
			}
			runID = id
		}

		var kept []mcmc.State
		if cfg.BurnIn < len(res.Trace) {
			kept, err = diag.Prepare(res.Trace, cfg.BurnIn, cfg.Thin)
			if err != nil {
				return err
			}
		}
		pooled = append(pooled, kept...)

		col := diag.Column(kept, 0)
		mean := 0.0
		if len(kept) > 0 {
			mean = diag.Mean(kept)[0]
		}
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%+.4f\t%.2f\t%s\n",
			i, chainCfg.Seed, res.AcceptanceRatio, mean, diag.AutocorrelationLength(col), runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(pooled) == 0 {
		return nil
	}
	fmt.Println("\npooled:")
	fmt.Print(viz.SummaryTable(diag.Summarize(pooled)))
	return nil
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
	fmt.Fprintln(w, "ID\tTARGET\tTIME\tDIM\tSTEPS\tSTEP\tSOURCE\tSEED\tACCEPT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%s\t%d\t%.4f\n",
			run.ID,
			run.Target,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Steps,
			run.StepSize,
			run.Source,
			run.Seed,
			run.AcceptanceRatio,
		)
	}

	return w.Flush()
}

// loadRun resolves "latest" and reads a stored run.
func loadRun(runID string) (*storage.RunMetadata, *mcmc.Result, error) {
	st := storage.New(dataDir)
	if runID == "latest" {
		id, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = id
	}
	meta, result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Trace) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %s\n", meta.Target)
	fmt.Printf("samples: %d\n\n", len(result.Trace))

	numVars := len(result.Trace[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for d := 0; d < numVars; d++ {
		col := diag.Column(result.Trace, d)
		fmt.Println(viz.TracePlot(col, 80, 10, fmt.Sprintf("x%d vs step", d)))
		fmt.Println()

		if maxLag > 0 {
			acf := diag.Autocorrelation(col, maxLag)
			fmt.Println(viz.TracePlot(acf, 80, 6, fmt.Sprintf("autocorrelation x%d (tau %.2f)", d, diag.AutocorrelationLength(col))))
			fmt.Println()
		}
	}

	if svgDir != "" {
		return writeSVGs(meta.ID, result.Trace)
	}
	return nil
}

func writeSVGs(runID string, trace []mcmc.State) error {
	if err := os.MkdirAll(svgDir, 0755); err != nil {
		return err
	}
	for d := range trace[0] {
		path := filepath.Join(svgDir, fmt.Sprintf("%s_x%d.svg", runID, d))
		if err := export.WriteFile(path, export.TraceSVG(diag.Column(trace, d), 800, 300, "#00ffff")); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	if len(trace[0]) < 2 {
		return nil
	}
	points := make([][2]float64, len(trace))
	for i, x := range trace {
		points[i] = [2]float64{x[0], x[1]}
	}
	path := filepath.Join(svgDir, runID+"_x0_x1.svg")
	if err := export.WriteFile(path, export.ScatterSVG(points, 600, 600, "#ff00ff")); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// trimmed applies the stored burn-in and thinning unless overridden by flags.
func trimmed(meta *storage.RunMetadata, trace []mcmc.State) ([]mcmc.State, error) {
	b, k := meta.BurnIn, meta.Thin
	if trimBurn >= 0 {
		b = trimBurn
	}
	if trimEvery > 0 {
		k = trimEvery
	}
	if k < 1 {
		k = 1
	}
	if b >= len(trace) {
		return nil, fmt.Errorf("burn-in %d leaves no samples from %d", b, len(trace))
	}
	return diag.Prepare(trace, b, k)
}

func histRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if axis < 0 || axis >= len(result.Trace[0]) {
		return fmt.Errorf("axis %d out of range for dim %d", axis, len(result.Trace[0]))
	}

	kept, err := trimmed(meta, result.Trace)
	if err != nil {
		return err
	}
	h, err := diag.NewHistogram(diag.Column(kept, axis), bins)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  x%d  %d samples\n\n", meta.ID, axis, len(kept))
	fmt.Print(viz.HistogramBars(h, 50))
	return nil
}

func summarizeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	kept, err := trimmed(meta, result.Trace)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %s (dim=%d)\n", meta.Target, meta.Dim)
	fmt.Printf("source: %s seed=%d\n", meta.Source, meta.Seed)
	fmt.Printf("steps: %d step-size=%g\n", meta.Steps, meta.StepSize)
	fmt.Printf("acceptance: %.4f\n\n", meta.AcceptanceRatio)
	fmt.Print(viz.SummaryTable(diag.Summarize(kept)))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.WriteJSON(os.Stdout, meta, result)
	}
	if err := storage.ExportJSON(outPath, meta, result); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	targets := experiment.NewRegistry().ListTargets()
	if len(args) == 1 {
		targets = args[:1]
	}

	for _, name := range targets {
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			fmt.Printf("no presets for target: %s\n", name)
			continue
		}
		fmt.Printf("presets for %s:\n", name)
		for _, p := range presets {
			cfg := config.GetPreset(name, p)
			fmt.Printf("  %-12s dim=%d steps=%d step-size=%g\n", p, cfg.Dim, cfg.Steps, cfg.StepSize)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd, args, nil)
	if err != nil {
		return err
	}
	cfg := exp.Config()
	viz.SetTheme(theme)

	maxSteps := 0
	if cmd.Flags().Changed("steps") {
		maxSteps = cfg.Steps
	}

	m, err := viz.NewLive(cfg.Target, cfg.Bounds(), exp.Chain, stepsPerFrame, maxSteps)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchTarget(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	stepCounts := []int{1000, 10000, 100000}
	stepSizes := []float64{0.1, 1.0, 5.0}

	fmt.Printf("benchmarking %s (dim=%d source=%s)\n\n", base.Target, base.Dim, base.Source)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tSTEP\tTIME\tSTEPS/SEC\tACCEPT")

	registry := experiment.NewRegistry()
	for _, n := range stepCounts {
		for _, size := range stepSizes {
			cfg := base.Clone()
			cfg.Steps = n
			cfg.StepSize = size
			cfg.BurnIn = 0

			exp := experiment.New(cfg)
			if err := exp.Setup(registry, nil); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.Steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%g\t%v\t%.0f\t%.4f\n",
				n, size, elapsed, stepsPerSec, result.AcceptanceRatio)
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	outcomes, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), metrics.Defaults, func(i, n int, name string) {
		fmt.Printf("  run %d/%d: %s\n", i, n, name)
	})

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTARGET\tSTEPS\tSTEP\tACCEPT\tRUN")
	for _, o := range outcomes {
		runID := "-"
		if !noSave {
			id, err := st.Save(o.Config, o.Result)
			if err != nil {
				return err
			}
			runID = id
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%.4f\t%s\n",
			o.Name, o.Config.Target, o.Result.Steps, o.Config.StepSize, o.Result.AcceptanceRatio, runID)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.Sweep{
		Base:   base,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Points: sweepPoints,
	}

	fmt.Printf("sweeping %s over [%g, %g] on %s (steps=%d)\n\n", sweepParam, sweepMin, sweepMax, base.Target, base.Steps)
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tACCEPT\tMEAN(x0)\tTAU(x0)\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%+.4f\t%.2f\n", r.Value, r.AcceptanceRatio, r.Mean, r.AutoCorr)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := automation.Best(results); ok {
		fmt.Printf("\nshortest autocorrelation: %s=%g (tau %.2f, acceptance %.4f)\n", sweepParam, best.Value, best.AutoCorr, best.AcceptanceRatio)
	}
	return nil
}
