package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/dedx/internal/analysis"
	"github.com/san-kum/dedx/internal/config"
	"github.com/san-kum/dedx/internal/report"
	"github.com/san-kum/dedx/internal/stopping"
	"github.com/san-kum/dedx/internal/store"
	"github.com/san-kum/dedx/internal/tui"
	"github.com/san-kum/dedx/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	particle   string
	material   string
	modelNames []string
	allModels  bool
	outDir     string
	workers    int
	stepMode   string
	saveRun    bool
	logScale   bool
	exportFmt  string
	exportOut  string
	themeName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dedx",
		Short:         "charged-particle stopping power lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dedx", "run store directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "energy grid preset")
	rootCmd.PersistentFlags().StringVar(&particle, "particle", "", "particle name (proton, deuteron, alpha)")
	rootCmd.PersistentFlags().StringVar(&material, "material", "", "material name")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "batch workers (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&stepMode, "step-mode", "", "grid step mode (compat, piecewise)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", viz.Themes[0].Name, "explorer theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "compute stopping power tables and write reports",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringSliceVarP(&modelNames, "model", "m", nil, "correction model (repeatable)")
	generateCmd.Flags().BoolVar(&allModels, "all", false, "every registered model")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	generateCmd.Flags().BoolVar(&saveRun, "store", false, "also save each curve to the run store")

	computeCmd := &cobra.Command{
		Use:   "compute [energy_MeV]...",
		Short: "evaluate single energies",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompute,
	}
	computeCmd.Flags().StringSliceVarP(&modelNames, "model", "m", nil, "correction model (repeatable)")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list correction models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [modelA] [modelB]",
		Short: "relative spread between two models",
		Args:  cobra.MaximumNArgs(2),
		RunE:  compareModels,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [csv_file|run_id]",
		Short: "plot dE/dx from a csv table or stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotCurve,
	}
	plotCmd.Flags().BoolVar(&logScale, "log", false, "log10 scale")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportFmt, "format", "f", "yaml", "yaml or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list energy grid presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "dedx.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Println(viz.Success.Render("wrote " + path))
			return nil
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive stopping power explorer",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	rootCmd.AddCommand(generateCmd, computeCmd, modelsCmd, compareCmd, plotCmd, listCmd, exportCmd, presetsCmd, initCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.Failure.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// loadConfig layers defaults, config file, preset and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("particle") {
		cfg.Particle = config.ParticleConfig{Name: particle}
	}
	if flags.Changed("material") {
		cfg.Material = config.MaterialConfig{Name: material}
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("step-mode") {
		cfg.Grid.StepMode = stepMode
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.OutputDir = outDir
	}
	if len(modelNames) > 0 {
		cfg.Models = modelNames
	}
	if allModels {
		cfg.Models = stopping.DefaultRegistry().Names()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type setup struct {
	cfg      *config.Config
	particle stopping.Particle
	material stopping.Material
	grid     stopping.Grid
}

func resolve(cmd *cobra.Command) (*setup, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	p, err := cfg.ParticleSpec()
	if err != nil {
		return nil, err
	}
	mat, err := cfg.MaterialSpec()
	if err != nil {
		return nil, err
	}
	grid, err := cfg.EnergyGrid()
	if err != nil {
		return nil, err
	}
	return &setup{cfg: cfg, particle: p, material: mat, grid: grid}, nil
}

func (s *setup) engine(modelName string) (*stopping.Engine, error) {
	model, err := stopping.DefaultRegistry().Get(modelName)
	if err != nil {
		return nil, err
	}
	return stopping.New(s.particle, s.material, model, stopping.WithWorkers(s.cfg.Workers))
}

// curve evaluates one model over the configured grid.
func (s *setup) curve(modelName string) (*stopping.Engine, []stopping.Point, error) {
	eng, err := s.engine(modelName)
	if err != nil {
		return nil, nil, err
	}
	energies, err := s.grid.Generate()
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	points, err := eng.ComputeBatch(energies)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", eng.Model().Name(), err)
	}
	slog.Debug("computed curve", "model", eng.Model().Name(), "points", len(points), "elapsed", time.Since(start))
	return eng, points, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := resolve(cmd)
	if err != nil {
		return err
	}
	slog.Debug("grid", "grid", s.grid.String())

	var st *store.Store
	if saveRun {
		st = store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Println(viz.Banner(fmt.Sprintf("stopping power: %s in %s", s.particle.Name, s.material.Name), 60))
	fmt.Printf("grid: %s\n", s.grid)

	var errs []error
	for _, name := range s.cfg.Models {
		fmt.Println()
		eng, points, err := s.curve(name)
		if err != nil {
			fmt.Println(viz.Failure.Render("✗ ") + err.Error())
			errs = append(errs, err)
			continue
		}

		meta := report.MetaFor(eng)
		paths, err := report.WriteFiles(s.cfg.OutputDir, meta, points, s.cfg.Formats)
		if err != nil {
			fmt.Println(viz.Failure.Render("✗ ") + err.Error())
			errs = append(errs, err)
			continue
		}

		summary, err := analysis.Summarize(points)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Println(viz.RenderSamples(meta.Model, points))
		fmt.Println(viz.RenderSummary(meta, summary))
		for _, p := range paths {
			fmt.Println(viz.Success.Render("✓ ") + p)
		}

		if st != nil {
			runID, err := st.Save(meta, s.grid, points)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Printf("run id: %s\n", runID)
		}
	}
	return errors.Join(errs...)
}

func runCompute(cmd *cobra.Command, args []string) error {
	s, err := resolve(cmd)
	if err != nil {
		return err
	}

	energies := make([]float64, len(args))
	for i, a := range args {
		e, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid energy %q: %w", a, err)
		}
		energies[i] = e
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "MODEL\tENERGY (MeV)\tGAMMA\tBETA^2\tdE/dx (MeV/cm)\tMASS dE/dx (MeV cm^2/g)\t")
	for _, name := range s.cfg.Models {
		eng, err := s.engine(name)
		if err != nil {
			return err
		}
		for _, e := range energies {
			k, err := eng.Kinematics(e)
			if err != nil {
				fmt.Fprintf(w, "%s\t%g\t-\t-\t%v\t\t\n", eng.Model().Name(), e, err)
				continue
			}
			dedx, err := eng.ComputeDEDX(e)
			if err != nil {
				fmt.Fprintf(w, "%s\t%g\t%.6f\t%.6g\t%v\t\t\n", eng.Model().Name(), e, k.Gamma, k.Beta2, err)
				continue
			}
			fmt.Fprintf(w, "%s\t%g\t%.6f\t%.6g\t%.4f\t%.4f\t\n",
				eng.Model().Name(), e, k.Gamma, k.Beta2, dedx, dedx/eng.Material().Density)
		}
	}
	return w.Flush()
}

func listModels(cmd *cobra.Command, args []string) error {
	reg := stopping.DefaultRegistry()
	var infos []stopping.ModelInfo
	for _, name := range reg.Names() {
		model, err := reg.Get(name)
		if err != nil {
			return err
		}
		if d, ok := model.(stopping.Describer); ok {
			infos = append(infos, d.Info())
		} else {
			infos = append(infos, stopping.ModelInfo{Name: model.Name()})
		}
	}
	fmt.Print(viz.RenderModels(infos))
	return nil
}

func compareModels(cmd *cobra.Command, args []string) error {
	a, b := "FTFP_BERT", "EM_option4"
	if len(args) > 0 {
		a = args[0]
	}
	if len(args) > 1 {
		b = args[1]
	}

	s, err := resolve(cmd)
	if err != nil {
		return err
	}
	_, pa, err := s.curve(a)
	if err != nil {
		return err
	}
	_, pb, err := s.curve(b)
	if err != nil {
		return err
	}

	c, err := analysis.Compare(pa, pb)
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderComparison(a, b, c))
	return nil
}

func plotCurve(cmd *cobra.Command, args []string) error {
	src := args[0]

	var (
		points  []stopping.Point
		caption string
	)
	if strings.EqualFold(filepath.Ext(src), ".csv") {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()
		points, err = report.ReadCSV(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		caption = filepath.Base(src)
	} else {
		st := store.New(dataDir)
		meta, err := st.Load(src)
		if err != nil {
			return err
		}
		points, err = st.LoadPoints(src)
		if err != nil {
			return err
		}
		caption = fmt.Sprintf("%s %s in %s", meta.Model, meta.Particle, meta.Material)
	}

	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("points: %d  (%.2f - %.2f MeV)\n\n", len(points), points[0].Energy, points[len(points)-1].Energy)
	fmt.Println(viz.PlotCurve(points, caption+": dE/dx [MeV/cm] vs point", logScale))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tPARTICLE\tMATERIAL\tTIME\tPOINTS\tPEAK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f MeV/cm @ %.2f MeV\n",
			run.ID,
			run.Model,
			run.Particle,
			run.Material,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Summary.MaxDEDX,
			run.Summary.MaxAt,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	if exportOut != "" {
		if err := st.ExportFile(exportOut, args[0], exportFmt); err != nil {
			return err
		}
		fmt.Println(viz.Success.Render("wrote " + exportOut))
		return nil
	}
	return st.Export(os.Stdout, args[0], exportFmt)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOINTS\tGRID")
	for _, name := range config.ListPresets() {
		cfg := config.DefaultConfig()
		if err := cfg.ApplyPreset(name); err != nil {
			return err
		}
		grid, err := cfg.EnergyGrid()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		n, err := grid.Len()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, n, grid)
	}
	return w.Flush()
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := resolve(cmd)
	if err != nil {
		return err
	}
	return tui.Run(stopping.DefaultRegistry(), s.particle, s.material, s.grid, themeName)
}
