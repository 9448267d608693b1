package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/guptarohit/asciigraph"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/export"
	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/lumped"
	"github.com/san-kum/heatsim/internal/metrics"
	"github.com/san-kum/heatsim/internal/server"
	"github.com/san-kum/heatsim/internal/sim"
	"github.com/san-kum/heatsim/internal/solvers"
	"github.com/san-kum/heatsim/internal/storage"
	"github.com/san-kum/heatsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if err := exp.Setup(); err != nil {
		return err
	}

	p := exp.Params()
	fmt.Printf("running %s with %s solver (%d nodes, %d steps, Fo=%.4g, Bi=%.4g)...\n",
		p.Shape, exp.Strategy(), p.Nodes, p.TimeSteps, p.Fo, p.Bi)

	result, err := exp.Run(cmd.Context())
	if result != nil && result.StepsTaken > 0 {
		// keep what was computed before a failure or interrupt
		if runID, saveErr := st.Save(exp.Config(), result); saveErr == nil {
			fmt.Printf("run id: %s\n", runID)
		} else {
			log.WithError(saveErr).Warn("could not save partial run")
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printTemperatures(result.Field)
	printMetrics(result.Metrics)
	return nil
}

func printTemperatures(f *heat.Field) {
	final := f.Final()
	fmt.Printf("final center: %.3f K\n", final[0])
	fmt.Printf("final surface: %.3f K\n", final[len(final)-1])
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
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
	fmt.Fprintln(w, "ID\tSHAPE\tTIME\tSOLVER\tNODES\tROWS\tFO\tBI\tSTATUS")
	for _, run := range runs {
		status := "complete"
		if !run.Complete {
			status = "partial"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.3g\t%.3g\t%s\n",
			run.ID,
			run.Config.Shape,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Solver,
			run.Nodes,
			run.Rows,
			run.Fourier,
			run.Biot,
			status,
		)
	}
	return w.Flush()
}

// loadRun reads a stored field together with its derived parameters.
func loadRun(runID string) (*heat.Field, *storage.RunMetadata, heat.Params, error) {
	st := storage.New(dataDir)
	f, meta, err := st.LoadField(runID)
	if err != nil {
		return nil, nil, heat.Params{}, err
	}
	p, err := meta.Config.Params()
	if err != nil {
		return nil, nil, heat.Params{}, err
	}
	return f, meta, p, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	f, meta, p, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("shape: %s, solver: %s\n", meta.Config.Shape, meta.Solver)
	fmt.Printf("rows: %d\n\n", f.Rows())

	lo, hi := p.Bounds()
	series := [][]float64{f.Center(), f.Surface()}
	colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red}
	caption := "center (blue) and surface (red) temperature, K"
	if showLumped {
		series = append(series, lumped.Series(p, f.Times))
		colors = append(colors, asciigraph.Yellow)
		caption += fmt.Sprintf(", lumped (yellow, Bi=%.3g)", lumped.Biot(p))
	}
	if churchillN > 0 {
		series = append(series, lumped.ChurchillSeries(p, f.Times, churchillN))
		colors = append(colors, asciigraph.Green)
		caption += fmt.Sprintf(", churchill n=%g (green)", churchillN)
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Printf("\ntime: 0 .. %.4g s\n", f.Times[f.Rows()-1])
	if showLumped && !lumped.Valid(p) {
		fmt.Printf("note: lumped Biot %.3g exceeds %.1f, the lumped curve is only indicative\n", lumped.Biot(p), lumped.ValidBiot)
	}
	return nil
}

// profileRows picks n rows spread evenly over the run, last row included.
func profileRows(total, n int) []int {
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	rows := make([]int, 0, n)
	for k := 1; k <= n; k++ {
		rows = append(rows, (total-1)*k/n)
	}
	return rows
}

func plotProfile(cmd *cobra.Command, args []string) error {
	f, meta, p, err := loadRun(args[0])
	if err != nil {
		return err
	}

	rows := profileRows(f.Rows(), profiles)
	series := make([][]float64, len(rows))
	labels := make([]string, len(rows))
	for k, i := range rows {
		series[k] = f.Row(i)
		labels[k] = fmt.Sprintf("%.3gs", f.Times[i])
	}

	lo, hi := p.Bounds()
	graph := asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.Caption(fmt.Sprintf("%s profiles, center to surface, at %s", meta.Config.Shape, strings.Join(labels, ", "))),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	f, _, p, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = args[0] + ".csv"
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var extra map[string][]float64
	var order []string
	if showLumped {
		extra = map[string][]float64{"lumped": lumped.Series(p, f.Times)}
		order = []string{"lumped"}
	}
	if err := export.HistoryCSV(file, f, extra, order); err != nil {
		return err
	}

	fmt.Printf("exported %d rows to %s\n", f.Rows(), path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	f, meta, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	doc := export.NewDocument(f, meta.Solver, meta.Metrics)
	doc.Fourier = meta.Fourier
	doc.Biot = meta.Biot

	path := output
	if path == "" {
		path = args[0] + ".json"
	}
	if err := export.JSON(path, doc); err != nil {
		return err
	}
	if path != "-" {
		fmt.Printf("exported to %s\n", path)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	f, _, p, err := loadRun(args[0])
	if err != nil {
		return err
	}

	prefix := output
	if prefix == "" {
		prefix = args[0]
	}

	var extra []export.Series
	if showLumped {
		extra = append(extra, export.Series{Name: "lumped", Color: "#ffcc00", X: f.Times, Y: lumped.Series(p, f.Times)})
	}

	historyPath := prefix + "_history.svg"
	if err := os.WriteFile(historyPath, []byte(export.HistoryToSVG(f, 800, 400, extra...)), 0644); err != nil {
		return err
	}
	profilePath := prefix + "_profile.svg"
	if err := os.WriteFile(profilePath, []byte(export.ProfileToSVG(f, profileRows(f.Rows(), profiles), 800, 400)), 0644); err != nil {
		return err
	}

	fmt.Printf("exported %s and %s\n", historyPath, profilePath)
	return nil
}

func parseStrategies(args []string) ([]heat.Strategy, error) {
	if len(args) == 0 {
		return heat.Strategies(), nil
	}
	out := make([]heat.Strategy, 0, len(args))
	for _, a := range args {
		s, err := heat.ParseStrategy(a)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// runWith solves p once with strategy s.
func runWith(cmd *cobra.Command, p heat.Params, s heat.Strategy) (*sim.Result, error) {
	solver, err := solvers.New(s)
	if err != nil {
		return nil, err
	}
	simulator := sim.New(solver)
	for _, m := range metrics.Defaults(p) {
		simulator.AddMetric(m)
	}
	return simulator.Run(cmd.Context(), p)
}

// maxDifference returns the largest absolute difference between two fields
// of the same size.
func maxDifference(a, b *heat.Field) float64 {
	worst := 0.0
	for i := 0; i < a.Rows(); i++ {
		ra, rb := a.Row(i), b.Row(i)
		for j := range ra {
			worst = math.Max(worst, math.Abs(ra[j]-rb[j]))
		}
	}
	return worst
}

func compareStrategies(cmd *cobra.Command, args []string) error {
	strategies, err := parseStrategies(args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	results := make([]*sim.Result, len(strategies))
	for i, s := range strategies {
		res, err := runWith(cmd, p, s)
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		results[i] = res
	}
	ref := results[0]

	fmt.Printf("%s, %d nodes, %d steps, Fo=%.4g, Bi=%.4g\n\n", p.Shape, p.Nodes, p.TimeSteps, p.Fo, p.Bi)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SOLVER\tTIME\tCENTER\tSURFACE\tMAX DIFF vs %s\n", strings.ToUpper(ref.Solver))
	for _, res := range results {
		final := res.Field.Final()
		fmt.Fprintf(w, "%s\t%v\t%.4f\t%.4f\t%.3e\n",
			res.Solver,
			res.Elapsed.Round(time.Microsecond),
			final[0],
			final[len(final)-1],
			maxDifference(ref.Field, res.Field),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	t := p.MaxTime
	fmt.Printf("\nlumped reference at t=%.4gs: %.4f K (Bi=%.3g, tau=%.4gs", t, lumped.Temperature(p, t), lumped.Biot(p), lumped.TimeConstant(p))
	if !lumped.Valid(p) {
		fmt.Print(", outside the lumped regime")
	}
	fmt.Println(")")
	if blendN > 0 {
		fmt.Printf("churchill blend (n=%g) at t=%.4gs: %.4f K\n", blendN, t, lumped.Churchill(p, t, blendN))
	}

	series := make([][]float64, len(results))
	for i, res := range results {
		series[i] = res.Field.Center()
	}
	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("center temperature per solver"),
	))
	return nil
}

func benchStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	if iterations < 1 {
		iterations = 1
	}

	fmt.Printf("benchmarking %s, %d nodes, %d steps, %d iterations...\n\n", p.Shape, p.Nodes, p.TimeSteps, iterations)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tTOTAL\tPER RUN\tPER STEP")
	for _, s := range heat.Strategies() {
		var total time.Duration
		for i := 0; i < iterations; i++ {
			res, err := runWith(cmd, p, s)
			if err != nil {
				return fmt.Errorf("%s: %w", s, err)
			}
			total += res.Elapsed
		}
		perRun := total / time.Duration(iterations)
		fmt.Fprintf(w, "%s\t%v\t%v\t%v\n",
			s,
			total.Round(time.Microsecond),
			perRun.Round(time.Microsecond),
			(perRun / time.Duration(p.TimeSteps)).Round(time.Nanosecond),
		)
	}
	return w.Flush()
}

func sweepPresets(cmd *cobra.Command, args []string) error {
	shapes := args
	if len(shapes) == 0 {
		shapes = []string{"slab", "cylinder", "sphere"}
	}

	var jobs []sim.Job
	for _, shapeName := range shapes {
		names := config.ListPresets(shapeName)
		if len(names) == 0 {
			return fmt.Errorf("no presets for shape: %s", shapeName)
		}
		for _, name := range names {
			cfg := config.GetPreset(shapeName, name)
			if sweepSolver != "" {
				cfg.Solver = sweepSolver
			}
			p, err := cfg.Params()
			if err != nil {
				return fmt.Errorf("%s/%s: %w", shapeName, name, err)
			}
			s, err := cfg.Strategy()
			if err != nil {
				return err
			}
			jobs = append(jobs, sim.Job{Name: shapeName + "/" + name, Params: p, Strategy: s})
		}
	}

	start := time.Now()
	results, err := sim.NewEnsemble(workers, solvers.New).
		WithMetrics(metrics.Defaults).
		Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSOLVER\tFO\tBI\tCENTER\tSURFACE\tT95\tELAPSED")
	for i, res := range results {
		final := res.Field.Final()
		fmt.Fprintf(w, "%s\t%s\t%.3g\t%.3g\t%.2f\t%.2f\t%.4g\t%v\n",
			jobs[i].Name,
			res.Solver,
			res.Params.Fo,
			res.Params.Bi,
			final[0],
			final[len(final)-1],
			res.Metrics["t95"],
			res.Elapsed.Round(time.Microsecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d runs in %v\n", len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	shapes := args
	if len(shapes) == 0 {
		shapes = []string{"slab", "cylinder", "sphere"}
	}
	for _, s := range shapes {
		names := config.ListPresets(s)
		if len(names) == 0 {
			fmt.Printf("no presets for shape: %s\n", s)
			continue
		}
		fmt.Printf("presets for %s:\n", s)
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	var (
		f     *heat.Field
		p     heat.Params
		title string
	)

	if len(args) == 1 {
		field, meta, params, err := loadRun(args[0])
		if err != nil {
			return err
		}
		f, p, title = field, params, meta.ID
	} else {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		if err := exp.Setup(); err != nil {
			return err
		}
		res, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}
		f, p = res.Field, exp.Params()
		title = fmt.Sprintf("%s / %s", p.Shape, res.Solver)
	}

	if !validTheme(themeName) {
		return fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
	}
	model := viz.NewReplay(f, title).WithTheme(themeName)
	if showLumped {
		model = model.WithReference(lumped.Series(p, f.Times))
	}

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return server.NewServer(addr, upgrader, stride).Serve(cmd.Context())
}

func validTheme(name string) bool {
	for _, t := range viz.ThemeNames() {
		if t == name {
			return true
		}
	}
	return false
}
