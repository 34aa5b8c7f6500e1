package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/experiment"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/universe"
	"github.com/san-kum/nbodysim/internal/viz"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	dt         float64
	maxTime    float64
	seed       int64
	growRadius bool
	workers    int
	saveFinal  bool
	outputDir  string
	configFile string
	preset     string
	styled     bool
	verbose    bool
	ensemble   int
	noStore    bool

	massMin, massMax     float64
	radiusMin, radiusMax float64
	posMin, posMax       float64
	velMin, velMax       float64
)

var logger = slog.New(slog.DiscardHandler)

func main() {
	rootCmd := &cobra.Command{
		Use:           "nbody",
		Short:         "brute-force n-body gravity simulator with merging collisions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nbody", "run store directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [universe.tsv|count]",
		Short: "run a simulation from a universe file or a random universe",
		Long: "Runs until the maximum simulated time is reached or a single body is left.\n" +
			"An integer argument generates that many random bodies instead of reading a file.",
		Args: cobra.MaximumNArgs(1),
		RunE: runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&styled, "styled", false, "render the report with colors and borders")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also report diagnostics")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "run this many random universes with consecutive seeds")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the run in the run store")

	liveCmd := &cobra.Command{
		Use:   "live [universe.tsv|count]",
		Short: "step a simulation in an interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	generateCmd := &cobra.Command{
		Use:   "generate [count] [out.tsv]",
		Short: "write a random universe file",
		Args:  cobra.ExactArgs(2),
		RunE:  generateUniverse,
	}
	generateCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	addRangeFlags(generateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot active bodies and kinetic energy over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, generateCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&maxTime, "time", config.DefaultMaxTime, "maximum simulated time")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().BoolVar(&growRadius, "grow-radius", false, "give merged bodies the radius of the combined volume")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines for the acceleration pass (0 = all CPUs)")
	cmd.Flags().BoolVar(&saveFinal, "save-final", false, "write the final state as <stem>-<time>.tsv")
	cmd.Flags().StringVar(&outputDir, "out", config.DefaultOutputDir, "directory for final state files")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.MarkFlagsMutuallyExclusive("config", "preset")
	addRangeFlags(cmd)
}

func addRangeFlags(cmd *cobra.Command) {
	r := universe.DefaultRanges()
	cmd.Flags().Float64Var(&massMin, "min-mass", r.Mass.Min, "random mode: minimum mass")
	cmd.Flags().Float64Var(&massMax, "max-mass", r.Mass.Max, "random mode: maximum mass")
	cmd.Flags().Float64Var(&radiusMin, "min-radius", r.Radius.Min, "random mode: minimum radius")
	cmd.Flags().Float64Var(&radiusMax, "max-radius", r.Radius.Max, "random mode: maximum radius")
	cmd.Flags().Float64Var(&posMin, "min-pos", r.Position.Min, "random mode: minimum position component")
	cmd.Flags().Float64Var(&posMax, "max-pos", r.Position.Max, "random mode: maximum position component")
	cmd.Flags().Float64Var(&velMin, "min-vel", r.Velocity.Min, "random mode: minimum velocity component")
	cmd.Flags().Float64Var(&velMax, "max-vel", r.Velocity.Max, "random mode: maximum velocity component")
}

func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", logFormat)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
	return nil
}

// resolveConfig layers defaults, a preset or config file, the positional
// universe argument and finally any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) == 1 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			cfg.Universe = ""
			cfg.Random.Count = n
		} else {
			cfg.Universe = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.MaxTime = maxTime
	}
	cfg.ApplySeed(seed, flags.Changed("seed"))
	if flags.Changed("grow-radius") {
		cfg.GrowRadius = growRadius
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("save-final") {
		cfg.SaveFinal = saveFinal
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}
	applyRangeFlags(cmd, &cfg.Random.Ranges)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyRangeFlags(cmd *cobra.Command, r *universe.Ranges) {
	set := func(name string, dst *float64, v float64) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("min-mass", &r.Mass.Min, massMin)
	set("max-mass", &r.Mass.Max, massMax)
	set("min-radius", &r.Radius.Min, radiusMin)
	set("max-radius", &r.Radius.Max, radiusMax)
	set("min-pos", &r.Position.Min, posMin)
	set("max-pos", &r.Position.Max, posMax)
	set("min-vel", &r.Velocity.Min, velMin)
	set("max-vel", &r.Velocity.Max, velMax)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	var outcomes []*experiment.Outcome
	if ensemble > 1 {
		outcomes, err = experiment.NewEnsemble(cfg, ensemble, logger).Run(ctx)
	} else {
		exp := experiment.New(cfg, logger)
		if err := exp.Setup(); err != nil {
			return err
		}
		var out *experiment.Outcome
		out, err = exp.Run(ctx)
		outcomes = []*experiment.Outcome{out}
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var st *storage.Store
	if !noStore {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	for i, out := range outcomes {
		if i > 0 {
			fmt.Println()
		}
		if err := printOutcome(out); err != nil {
			return err
		}
		if st != nil {
			runID, err := st.Save(out.StoreRun())
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
		}
	}
	logger.Info("completed", "elapsed", elapsed, "runs", len(outcomes))
	return nil
}

func printOutcome(out *experiment.Outcome) error {
	if styled {
		fmt.Println(viz.RenderReport(out.Name, out.Result, verbose))
	} else {
		if ensemble > 1 {
			fmt.Printf("# %s\n", out.Name)
		}
		if err := viz.WriteReport(os.Stdout, out.Result.Summary); err != nil {
			return err
		}
		if verbose {
			if err := viz.WriteDiagnostics(os.Stdout, out.Result); err != nil {
				return err
			}
		}
	}
	if out.FinalState != "" {
		fmt.Printf("final state: %s\n", out.FinalState)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	m := viz.NewModel(exp.Simulator(), exp.Name())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return viz.WriteReport(os.Stdout, m.Result().Summary)
}

func generateUniverse(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid body count %q", args[0])
	}
	ranges := universe.DefaultRanges()
	applyRangeFlags(cmd, &ranges)

	bodies, err := universe.Generate(n, ranges, seed)
	if err != nil {
		return err
	}
	if err := universe.SaveFinal(args[1], bodies); err != nil {
		return err
	}
	fmt.Printf("wrote %d bodies to %s (seed %d)\n", n, args[1], seed)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBODIES\tREMAINING\tMERGES\tSIM TIME\tDT")
	for _, run := range runs {
		step := 0.0
		if run.Config != nil {
			step = run.Config.Dt
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%g\t%g\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Summary.Remaining,
			run.Merges,
			run.SimulatedTime,
			step,
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
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("universe: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(history))

	active := make([]float64, len(history))
	energy := make([]float64, len(history))
	for i, row := range history {
		active[i] = float64(row.Active)
		energy[i] = row.KineticEnergy
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"active bodies", active},
		{"kinetic energy", energy},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tDT\tTIME\tGROW\tMASS\tPOSITION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		r := p.Random.Ranges
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%t\t%s\t%s\n",
			name, p.Random.Count, p.Dt, p.MaxTime, p.GrowRadius,
			formatInterval(r.Mass), formatInterval(r.Position))
	}
	return w.Flush()
}

func formatInterval(iv universe.Interval) string {
	return strings.Join([]string{strconv.FormatFloat(iv.Min, 'g', 3, 64), strconv.FormatFloat(iv.Max, 'g', 3, 64)}, "..")
}
