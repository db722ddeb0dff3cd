package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/geodesim/internal/config"
	"github.com/san-kum/geodesim/internal/metrics"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/spacetime"
	"github.com/san-kum/geodesim/internal/storage"
	"github.com/san-kum/geodesim/internal/units"
	"github.com/san-kum/geodesim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	// Orbit overrides, applied on top of a preset or config file
	metricName string
	unitSystem string
	mass       float64
	spin       float64
	r0         float64
	theta0     float64
	phi0       float64
	ur         float64
	utheta     float64
	uphi       float64
	stepSize   float64
	subSteps   int
	ticks      int
	policy     string
	targetNorm float64
	// Run outputs
	promFile string
	noSave   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "geodesim",
		Short:         "test-particle orbits in schwarzschild and kerr spacetimes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunMenu()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".geodesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addOrbitFlags(runCmd)
	runCmd.Flags().StringVar(&promFile, "prom", "", "write the final orbit gauges to a prometheus textfile")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd)
	rootCmd.AddCommand(dataCommands()...)
	rootCmd.AddCommand(analysisCommands()...)
	rootCmd.AddCommand(inspectCommands()...)
	rootCmd.AddCommand(liveCommands()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// addOrbitFlags registers the flags that override a loaded configuration.
// Values are read in the unit system of the configuration.
func addOrbitFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&metricName, "metric", config.DefaultMetric, "schwarzschild or kerr")
	f.StringVar(&unitSystem, "units", config.DefaultUnits, "natural or si")
	f.Float64Var(&mass, "mass", config.DefaultMass, "central mass")
	f.Float64Var(&spin, "spin", 0, "angular momentum J of the central mass (kerr)")
	f.Float64Var(&r0, "r", config.DefaultR, "initial radius")
	f.Float64Var(&theta0, "theta", config.DefaultConfig().Initial.Theta, "initial polar angle")
	f.Float64Var(&phi0, "phi", 0, "initial azimuth")
	f.Float64Var(&ur, "ur", 0, "initial U^r")
	f.Float64Var(&utheta, "utheta", 0, "initial U^theta")
	f.Float64Var(&uphi, "uphi", 0, "initial U^phi")
	f.Float64Var(&stepSize, "step", config.DefaultStepSize, "proper-time sub-step")
	f.IntVar(&subSteps, "substeps", config.DefaultSubSteps, "sub-steps per tick")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	f.StringVar(&policy, "policy", config.DefaultPolicy, "connection policy: frozen or per-substep")
	f.Float64Var(&targetNorm, "norm", config.DefaultTargetNorm, "target squared norm of U")
}

// loadConfig resolves the configuration: defaults, then the named preset,
// then --config, then any flag set on the command line. It also returns a
// name for the run.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := ""

	if len(args) > 0 {
		name = args[0]
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("metric") {
		cfg.Metric = metricName
	}
	if flags.Changed("units") {
		cfg.Units = unitSystem
	}
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("spin") {
		cfg.Spin = spin
	}
	if flags.Changed("r") {
		cfg.Initial.R = r0
	}
	if flags.Changed("theta") {
		cfg.Initial.Theta = theta0
	}
	if flags.Changed("phi") {
		cfg.Initial.Phi = phi0
	}
	if flags.Changed("ur") {
		cfg.Initial.Ur = ur
	}
	if flags.Changed("utheta") {
		cfg.Initial.Utheta = utheta
	}
	if flags.Changed("uphi") {
		cfg.Initial.Uphi = uphi
	}
	if flags.Changed("step") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("substeps") {
		cfg.SubSteps = subSteps
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("policy") {
		cfg.Policy = policy
	}
	if flags.Changed("norm") {
		cfg.TargetNorm = targetNorm
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	body, runCfg, err := cfg.Build()
	if err != nil {
		return err
	}
	integ, err := cfg.Integrator()
	if err != nil {
		return err
	}

	s := sim.New(integ)
	s.SetLogger(slog.Default().With("run", runLabel(name)))
	s.AddMetric(metrics.NewNormDrift())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewRadiusRange())
	s.AddMetric(metrics.NewSuperluminal())

	var exporter *metrics.Exporter
	if promFile != "" {
		exporter = metrics.NewExporter(runLabel(name))
		s.AddObserver(exporter)
	}

	fmt.Printf("running %s (%s, rs=%g, a=%g)...\n", runLabel(name), body.Params.Variant, body.Params.Rs, body.Params.A)
	start := time.Now()

	result, err := s.Run(cmd.Context(), body, runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	if result.Halted {
		fmt.Printf("halted: %v\n", result.Errors[0])
	}

	final := result.Final(body.Params)
	fmt.Printf("final r: %g (%s)\n", cfg.FromNatural(units.Length, final.X[spacetime.R]), lengthUnit(cfg))
	fmt.Printf("final tau: %g (%s)\n", cfg.FromNatural(units.Time, result.Taus[len(result.Taus)-1]), timeUnit(cfg))

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6g\n", n, result.Metrics[n])
	}

	if exporter != nil {
		if result.Halted {
			exporter.RecordHalt()
		}
		if err := exporter.WriteTextfile(promFile); err != nil {
			return err
		}
		slog.Debug("wrote prometheus textfile", "path", promFile)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Preset:   name,
		Metric:   body.Params.Variant.String(),
		Units:    cfg.Units,
		Rs:       body.Params.Rs,
		Spin:     body.Params.A,
		StepSize: runCfg.StepSize,
		SubSteps: runCfg.SubSteps,
		Ticks:    runCfg.Ticks,
		Policy:   integ.Policy.String(),
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runLabel(name string) string {
	if name == "" {
		return "custom"
	}
	return name
}

func lengthUnit(cfg *config.Config) string {
	if strings.EqualFold(cfg.Units, config.UnitsSI) {
		return "m"
	}
	return "natural"
}

func timeUnit(cfg *config.Config) string {
	if strings.EqualFold(cfg.Units, config.UnitsSI) {
		return "s"
	}
	return "natural"
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
	fmt.Fprintln(w, "ID\tMETRIC\tTIME\tRS\tSPIN\tTICKS\tPOLICY\tHALTED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%d\t%s\t%v\n",
			run.ID,
			run.Metric,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rs,
			run.Spin,
			run.StepsTaken,
			run.Policy,
			run.Halted,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMETRIC\tUNITS\tMASS\tSPIN\tR\tPOLICY")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%s\n",
			name, p.Metric, p.Units, p.Mass, p.Spin, p.Initial.R, p.Policy)
	}
	return w.Flush()
}
