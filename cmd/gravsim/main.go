package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/gui/ebitenui"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	variant    string
	backend    string
	clamp      string
	logLevel   string
	seed       int64
	maxDt      float64
	workers    int
	dark       bool
	// headless run
	frames     int
	dt         float64
	mode       string
	gx, gy     float64
	cycleEvery int
	validate   bool
	svgPath    string
	scenario   string
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// plot
	metric string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "gravsim",
})

func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim [dots]",
		Short:         "interactive gravity point particle simulator",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
		RunE: runWindow(""),
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gravsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.StringVar(&variant, "variant", config.VariantModern, "control variant (classic|modern)")
	pf.StringVar(&backend, "backend", config.BackendRaylib, "display backend (raylib|ebiten|terminal)")
	pf.StringVar(&clamp, "clamp", config.ClampVector, "velocity limiter (vector|axis)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.Float64Var(&maxDt, "max-dt", 0, "upper bound on the frame timestep in seconds (0 disables)")
	pf.IntVar(&workers, "workers", 1, "goroutines per physics pass (0 uses every CPU)")
	pf.BoolVar(&dark, "dark", false, "start in dark mode")

	guiCmd := &cobra.Command{
		Use:   "gui [dots]",
		Short: "run the simulator in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWindow(""),
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [dots]",
		Short: "run the simulator in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWindow(config.BackendTerminal),
	}

	runCmd := &cobra.Command{
		Use:   "run [dots]",
		Short: "run a headless simulation and store its metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 600, "number of frames")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep per frame in seconds")
	runCmd.Flags().StringVar(&mode, "mode", "", "initial gravity mode (disabled|attract|repel)")
	runCmd.Flags().Float64Var(&gx, "gx", -1, "gravity point x in pixels (negative keeps the center)")
	runCmd.Flags().Float64Var(&gy, "gy", -1, "gravity point y in pixels (negative keeps the center)")
	runCmd.Flags().IntVar(&cycleEvery, "cycle-every", 0, "press the mode key every N frames (0 never)")
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop with an error on NaN or Inf state")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as SVG to this path")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "scripted input scenario (yaml)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [dots]",
		Short: "run headless simulations across a range of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity_force", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1e6, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1e7, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	sweepCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "timestep per frame in seconds")
	sweepCmd.Flags().StringVar(&scenario, "scenario", "", "scripted input scenario (yaml) replayed at every step")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a metric of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metric, "metric", "mean_speed", "metric to plot")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			fmt.Fprintln(cmd.OutOrStdout(), "available presets:")
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %s, %d dots\n", name, p.Variant, p.Dots)
			}
		},
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// buildConfig layers the configuration: preset, then config file, then any
// flag set on the command line, then the positional dot count.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	flags := cmd.Flags()

	name := preset
	if name == "" {
		name = variant
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", dynamo.ErrInvalidConfig, name, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("variant") {
		cfg.Variant = variant
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("clamp") {
		cfg.Clamp = clamp
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("max-dt") {
		cfg.MaxDt = maxDt
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("dark") {
		cfg.Theme = config.ThemeLight
		if dark {
			cfg.Theme = config.ThemeDark
		}
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}

	if len(args) > 0 {
		n, err := config.ParseDots(args[0])
		if err != nil {
			return nil, err
		}
		cfg.Dots = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWindow(forceBackend string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd, args)
		if err != nil {
			return err
		}
		if forceBackend != "" {
			cfg.Backend = forceBackend
		}

		s, err := sim.FromConfig(cfg)
		if err != nil {
			return err
		}
		s.SetLogger(logger)
		logger.Debug("simulator ready", "variant", cfg.Variant, "dots", cfg.Dots, "backend", cfg.Backend)

		ctx := cmd.Context()
		switch cfg.Backend {
		case config.BackendEbiten:
			return ebitenui.Run(ctx, s, cfg, logger)
		case config.BackendTerminal:
			return runTerminal(ctx, s, cfg)
		default:
			return gui.Run(ctx, s, cfg, logger)
		}
	}
}

// runTerminal sends logs to a file while the terminal UI owns the screen.
func runTerminal(ctx context.Context, s *sim.Simulator, cfg *config.Config) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	fileLogger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "gravsim",
		Level:           logger.GetLevel(),
	})
	s.SetLogger(fileLogger)
	return viz.Run(ctx, s, cfg, fileLogger)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return err
	}
	s.SetLogger(logger)
	for _, m := range metrics.Default(cfg.Scale) {
		s.AddMetric(m)
	}

	st := s.State()
	if gx >= 0 {
		st.Gravity.X = gx
	}
	if gy >= 0 {
		st.Gravity.Y = gy
	}

	runCfg := sim.RunConfig{Frames: frames, Dt: dt, Validate: validate}
	script := cycleScript(s.Resolver().Keys.Mode, cycleEvery)
	if scenario != "" {
		sc, err := automation.LoadScenario(scenario)
		if err != nil {
			return err
		}
		if script, err = sc.Script(cfg.Center()); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if sc.Frames > 0 && !cmd.Flags().Changed("frames") {
			runCfg.Frames = sc.Frames
		}
		if sc.Dt > 0 && !cmd.Flags().Changed("dt") {
			runCfg.Dt = sc.Dt
		}
		logger.Info("scenario loaded", "name", sc.Name, "events", len(sc.Events))
	}

	result, err := s.Run(cmd.Context(), runCfg, script)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(storage.RunMetadata{
		Variant:    cfg.Variant,
		Seed:       cfg.Seed,
		Dots:       cfg.Dots,
		Dt:         runCfg.Dt,
		Mode:       cfg.Mode,
		Force:      cfg.GravityForce,
		SpeedLimit: cfg.SpeedLimit,
		Clamp:      cfg.Clamp,
	}, result)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	logger.Info("run stored", "id", runID, "frames", result.Frames, "final_mode", st.Mode)

	if svgPath != "" {
		if err := writeSnapshot(svgPath, cfg, st, result); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		logger.Info("snapshot written", "path", svgPath)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", runID)
	for _, name := range result.MetricNames {
		fmt.Fprintf(out, "  %-16s %.4f\n", name, result.Metrics[name])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	sw := &automation.Sweep{
		Base:   cfg,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: frames,
		Dt:     dt,
		Logger: logger,
	}
	if scenario != "" {
		sc, err := automation.LoadScenario(scenario)
		if err != nil {
			return err
		}
		if sc.Frames > 0 && !cmd.Flags().Changed("frames") {
			sw.Frames = sc.Frames
		}
		if sc.Dt > 0 && !cmd.Flags().Changed("dt") {
			sw.Dt = sc.Dt
		}
		sw.Scenario = sc
		logger.Info("scenario loaded", "name", sc.Name, "events", len(sc.Events))
	}
	results, err := sw.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	names := make([]string, 0)
	if len(results) > 0 {
		for name := range results[0].Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprint(w, strings.ToUpper(sweepParam))
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%g", r.Value)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func writeSnapshot(path string, cfg *config.Config, st *dynamo.State, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return export.WriteSVG(f, export.Snapshot{
		Particles: result.Final,
		Gravity:   st.Gravity,
		Width:     cfg.Screen.Width,
		Height:    cfg.Screen.Height,
		Scale:     cfg.Scale,
		Dark:      st.Flags.DarkMode,
	})
}

// cycleScript releases key every n frames and nothing otherwise.
func cycleScript(key control.Key, n int) sim.Script {
	if n <= 0 {
		return nil
	}
	idle := control.NewSnapshot()
	press := control.NewSnapshot().Release(key)
	return func(frame int) control.Input {
		if (frame+1)%n == 0 {
			return press
		}
		return idle
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tDOTS\tFRAMES\tDT\tMODE\tCLAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dots,
			run.Frames,
			run.Dt,
			run.Mode,
			run.Clamp,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := storage.New(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	names, _, rows, err := store.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data, err := storage.Column(names, rows, metric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "variant: %s, dots: %d, frames: %d\n\n", meta.Variant, meta.Dots, meta.Frames)
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(metric+" vs frame"),
	)
	fmt.Fprintln(out, graph)
	return nil
}
