package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rgeflow/internal/config"
	"github.com/san-kum/rgeflow/internal/integrators"
	"github.com/san-kum/rgeflow/internal/metrics"
	"github.com/san-kum/rgeflow/internal/mssm"
	"github.com/san-kum/rgeflow/internal/rge"
	"github.com/san-kum/rgeflow/internal/scan"
	"github.com/san-kum/rgeflow/internal/storage"
	"github.com/san-kum/rgeflow/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	gridName   string
	samples    int
	tolerance  float64
	// scan parameter overrides, name=v1,v2,...
	varySpecs []string
	// plot all 10 components instead of the gauge sector
	plotAll bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rgeflow",
		Short: "MSSM renormalization group running lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rgeflow", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate couplings from MZ to the GUT scale",
		RunE:  runIntegration,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot coupling trajectories of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&plotAll, "all", false, "plot all 10 components")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "grid-scan input parameters for best unification",
		RunE:  runScan,
	}
	addScenarioFlags(scanCmd)
	scanCmd.Flags().StringArrayVar(&varySpecs, "vary", nil, "parameter grid, e.g. --vary yt=0.95,0.99,1.03")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the integration run in the terminal",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, compareCmd, scanCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk4, rk45)")
	cmd.Flags().StringVar(&gridName, "grid", config.DefaultGrid, "sample grid (uniform, geometric)")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of output samples")
	cmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "adaptive step tolerance")
}

// resolveConfig layers preset, config file, and flags, flags winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
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

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("grid") {
		cfg.Grid = gridName
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}

	return cfg, nil
}

func buildRun(cfg *config.Config) (*mssm.Model, rge.Stepper, []float64, rge.Config, error) {
	model := mssm.New(cfg.Inputs())

	stepper, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, nil, nil, rge.Config{}, err
	}

	grid, err := rge.GridByName(cfg.Grid)
	if err != nil {
		return nil, nil, nil, rge.Config{}, err
	}
	points := grid.Points(0, cfg.Inputs().LogSpan(), cfg.Samples)

	runCfg := rge.DefaultConfig()
	runCfg.Tolerance = cfg.Tolerance

	return model, stepper, points, runCfg, nil
}

func runIntegration(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	model, stepper, points, runCfg, err := buildRun(cfg)
	if err != nil {
		return err
	}

	runner := rge.New(model, stepper)
	spread := metrics.NewUnificationSpread()
	runner.AddMetric(spread)
	runner.AddMetric(metrics.NewPerturbativity())

	fmt.Printf("running %s scenario (%s, %s grid, %d samples)...\n", cfg.Scenario, cfg.Integrator, cfg.Grid, cfg.Samples)
	start := time.Now()

	result, err := runner.Run(context.Background(), cfg.Inputs().InitialState(), points, runCfg)
	if err != nil {
		reportFailure(cfg, result, err)
		return err
	}

	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scenario:   cfg.Scenario,
		Integrator: cfg.Integrator,
		Grid:       cfg.Grid,
		Samples:    cfg.Samples,
		Tolerance:  cfg.Tolerance,
		MZ:         cfg.MZ,
		MGUT:       cfg.MGUT,
		TanBeta:    cfg.TanBeta,
	}, result)
	if err != nil {
		return err
	}

	final := result.Final()
	in := cfg.Inputs()

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("internal steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	fmt.Printf("  closest approach at mu=%.3e GeV\n", in.Scale(spread.BestScale()))

	fmt.Println("\ncouplings at GUT scale:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, name := range mssm.ComponentNames {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, final[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ng1 at GUT: %.6f\n", final[mssm.G1])

	return nil
}

func reportFailure(cfg *config.Config, result *rge.Result, err error) {
	var intErr *rge.IntegrationError
	switch {
	case errors.As(err, &intErr) && errors.Is(err, rge.ErrDiverged):
		fmt.Printf("divergence before target scale: last good t=%.4f (mu=%.3e GeV)\n",
			intErr.T, cfg.Inputs().Scale(intErr.T))
	case errors.As(err, &intErr):
		fmt.Printf("integration failure: %v (mu=%.3e GeV)\n", err, cfg.Inputs().Scale(intErr.T))
	default:
		fmt.Printf("integration failure: %v\n", err)
	}
	if result != nil && len(result.Times) > 0 {
		fmt.Printf("last recorded sample: t=%.4f\n", result.Times[len(result.Times)-1])
	}
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tINTEG\tGRID\tSAMPLES\tSPREAD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.5f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Grid,
			run.Samples,
			run.Metrics["unification_spread"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(states))

	// gauge sector overlaid in one graph; the rest one graph each
	gauge := make([][]float64, 3)
	for i := range gauge {
		gauge[i] = make([]float64, len(states))
		for j := range states {
			gauge[i][j] = states[j][i]
		}
	}
	fmt.Println(asciigraph.PlotMany(gauge,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("g1, g2, g3 vs sample"),
	))
	fmt.Println()

	if !plotAll {
		return nil
	}

	for idx := mssm.Yt; idx < mssm.Dim; idx++ {
		data := make([]float64, len(states))
		for j := range states {
			if idx < len(states[j]) {
				data[j] = states[j][idx]
			}
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(mssm.ComponentNames[idx]+" vs sample"),
		))
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"t"}
	header = append(header, mssm.ComponentNames[:]...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'g', -1, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSONStdout(meta, mssm.ComponentNames[:], states, times)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	in := cfg.Inputs()
	grid, err := rge.GridByName(cfg.Grid)
	if err != nil {
		return err
	}
	points := grid.Points(0, in.LogSpan(), cfg.Samples)

	fmt.Printf("comparing integrators on %s (%d samples)\n\n", cfg.Scenario, cfg.Samples)
	fmt.Printf("%-12s  %-10s  %-10s  %-10s  %-8s  %-10s  %-10s\n", "integrator", "g1_gut", "g2_gut", "g3_gut", "steps", "time_ms", "drift")
	fmt.Println(strings.Repeat("-", 80))

	var baseline rge.State
	for _, name := range args {
		stepper, err := integrators.ByName(name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		runner := rge.New(mssm.New(in), stepper)
		runCfg := rge.DefaultConfig()
		runCfg.Tolerance = cfg.Tolerance
		if name == "rk4" {
			// fixed-step: the initial dt is the step for the whole run
			runCfg.InitialDt = in.LogSpan() / float64(cfg.Samples*10)
		}

		start := time.Now()
		result, err := runner.Run(context.Background(), in.InitialState(), points, runCfg)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		final := result.Final()
		if baseline == nil {
			baseline = final
		}
		// distance from the first integrator's end state
		drift := final.Sub(baseline).Norm()
		fmt.Printf("%-12s  %10.6f  %10.6f  %10.6f  %8d  %10.2f  %10.2e\n",
			name, final[mssm.G1], final[mssm.G2], final[mssm.G3],
			result.StepsTaken, float64(elapsed.Microseconds())/1000, drift)
	}

	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if len(varySpecs) == 0 {
		return fmt.Errorf("at least one --vary is required, e.g. --vary yt=0.95,0.99,1.03")
	}

	names := make([]string, 0, len(varySpecs))
	values := make([][]float64, 0, len(varySpecs))
	for _, arg := range varySpecs {
		name, vals, err := parseVary(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		values = append(values, vals)
	}

	g := scan.NewGridScan(names, values)
	points, best, err := g.Run(context.Background(), cfg.Inputs(), cfg.Samples)
	if err != nil {
		return err
	}

	in := cfg.Inputs()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMS\tSPREAD\tAT_SCALE\tG1_GUT")
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", formatParams(p.Params), p.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.5f\t%.3e\t%.6f\n", formatParams(p.Params), p.Spread, in.Scale(p.ScaleT), p.FinalG1)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %s (spread %.5f at mu=%.3e GeV)\n", formatParams(best.Params), best.Spread, in.Scale(best.ScaleT))
	return nil
}

func parseVary(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad --vary %q, want name=v1,v2,...", arg)
	}
	parts := strings.Split(list, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad --vary value %q: %w", p, err)
		}
		vals = append(vals, v)
	}
	return strings.TrimSpace(name), vals, nil
}

func formatParams(params map[string]float64) string {
	parts := make([]string, 0, len(params))
	for _, name := range []string{"yt", "yb", "ytau", "alpha1", "alpha2", "alpha3"} {
		if v, ok := params[name]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.5g", name, v))
		}
	}
	return strings.Join(parts, " ")
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	stepper, err := integrators.AdaptiveByName(cfg.Integrator)
	if err != nil {
		return err
	}

	runCfg := rge.DefaultConfig()
	runCfg.Tolerance = cfg.Tolerance

	m := tui.NewModel(mssm.New(cfg.Inputs()), stepper, runCfg)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
