package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	configFile string
	preset     string
	shape      string
	solver     string

	density      float64
	specificHeat float64
	conductivity float64
	convection   float64
	initial      float64
	ambient      float64
	radius       float64
	nodeCount    int
	stepCount    int
	maxTime      float64

	sweepSolver string
	showLumped  bool
	churchillN  float64
	blendN      float64
	themeName   string
	height      int
	width       int
	profiles    int
	output      string
	iterations  int
	workers     int
	addr        string
	stride      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "heatsim",
		Short:         "transient conduction in a slab, cylinder or sphere",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot center and surface temperature against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&showLumped, "lumped", false, "overlay the lumped-capacitance solution")
	plotCmd.Flags().Float64Var(&churchillN, "churchill", 0, "overlay the Churchill-blended lumped curve with this exponent (0 disables)")
	plotCmd.Flags().IntVar(&height, "height", 12, "plot height")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")

	profileCmd := &cobra.Command{
		Use:   "profile [run_id]",
		Short: "plot radial temperature profiles",
		Args:  cobra.ExactArgs(1),
		RunE:  plotProfile,
	}
	profileCmd.Flags().IntVar(&profiles, "count", 5, "number of evenly spaced profiles")
	profileCmd.Flags().IntVar(&height, "height", 12, "plot height")
	profileCmd.Flags().IntVar(&width, "width", 80, "plot width")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export center and surface histories to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.csv)")
	exportCSVCmd.Flags().BoolVar(&showLumped, "lumped", false, "add the lumped-capacitance column")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the full temperature field to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <run_id>.json)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export history and profile charts to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output prefix (default <run_id>)")
	exportSVGCmd.Flags().BoolVar(&showLumped, "lumped", false, "overlay the lumped-capacitance solution")
	exportSVGCmd.Flags().IntVar(&profiles, "count", 5, "number of profiles in the profile chart")

	compareCmd := &cobra.Command{
		Use:   "compare [strategy...]",
		Short: "solve one configuration with several strategies and compare them",
		RunE:  compareStrategies,
	}
	addConfigFlags(compareCmd)
	compareCmd.Flags().Float64Var(&blendN, "churchill", 10, "exponent of the Churchill-blended lumped reference")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time every solver strategy",
		Args:  cobra.NoArgs,
		RunE:  benchStrategies,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&iterations, "iterations", 5, "runs per strategy")

	sweepCmd := &cobra.Command{
		Use:   "sweep [shape...]",
		Short: "run every preset of the given shapes in parallel",
		RunE:  sweepPresets,
	}
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepSolver, "solver", "", "override every preset's solver strategy")

	presetsCmd := &cobra.Command{
		Use:   "presets [shape]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a stored run, or a fresh one, in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().BoolVar(&showLumped, "lumped", false, "overlay the lumped-capacitance solution")
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeEmber.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream simulations over a websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&stride, "stride", 10, "send every n-th row")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, profileCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		compareCmd, benchCmd, sweepCmd, presetsCmd, liveCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func setupLogging() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if logJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func addConfigFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	f.StringVar(&preset, "preset", "", "use a preset configuration")
	f.StringVar(&shape, "shape", d.Shape, "slab, cylinder or sphere")
	f.StringVar(&solver, "solver", d.Solver, "solver strategy (dense, lu, banded)")
	f.Float64Var(&density, "density", d.Density, "density (kg/m^3)")
	f.Float64Var(&specificHeat, "specific-heat", d.SpecificHeat, "specific heat (J/kg K)")
	f.Float64Var(&conductivity, "conductivity", d.Conductivity, "thermal conductivity (W/m K)")
	f.Float64Var(&convection, "convection", d.Convection, "convection coefficient (W/m^2 K)")
	f.Float64Var(&initial, "initial", d.Initial, "initial temperature (K)")
	f.Float64Var(&ambient, "ambient", d.Ambient, "ambient temperature (K)")
	f.Float64Var(&radius, "radius", d.Radius, "characteristic radius or half-thickness (m)")
	f.IntVar(&nodeCount, "nodes", d.NodeCount, "radial steps; the mesh has one more node")
	f.IntVar(&stepCount, "steps", d.StepCount, "time steps")
	f.Float64Var(&maxTime, "time", d.MaxTime, "simulated time (s)")
}

// resolveConfig starts from the default, a preset, or a config file (the file
// wins over the preset) and applies every flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		name := shape
		if !cmd.Flags().Changed("shape") {
			name = ""
		}
		p, err := findPreset(name, preset)
		if err != nil {
			return nil, err
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

	flags := cmd.Flags()
	if flags.Changed("shape") {
		cfg.Shape = shape
	}
	if flags.Changed("solver") {
		cfg.Solver = solver
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("specific-heat") {
		cfg.SpecificHeat = specificHeat
	}
	if flags.Changed("conductivity") {
		cfg.Conductivity = conductivity
	}
	if flags.Changed("convection") {
		cfg.Convection = convection
	}
	if flags.Changed("initial") {
		cfg.Initial = initial
	}
	if flags.Changed("ambient") {
		cfg.Ambient = ambient
	}
	if flags.Changed("radius") {
		cfg.Radius = radius
	}
	if flags.Changed("nodes") {
		cfg.NodeCount = nodeCount
	}
	if flags.Changed("steps") {
		cfg.StepCount = stepCount
	}
	if flags.Changed("time") {
		cfg.MaxTime = maxTime
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findPreset looks name up under shape, or under every shape when shape is
// empty.
func findPreset(shape, name string) (*config.Config, error) {
	if shape != "" {
		if cfg := config.GetPreset(shape, name); cfg != nil {
			return cfg, nil
		}
		return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", name, shape, config.ListPresets(shape))
	}
	for _, s := range []string{"sphere", "cylinder", "slab"} {
		if cfg := config.GetPreset(s, name); cfg != nil {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown preset: %s", name)
}
