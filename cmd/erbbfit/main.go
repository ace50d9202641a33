package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/erbbfit/internal/analysis"
	"github.com/san-kum/erbbfit/internal/config"
	"github.com/san-kum/erbbfit/internal/dataio"
	"github.com/san-kum/erbbfit/internal/export"
	"github.com/san-kum/erbbfit/internal/fit"
	"github.com/san-kum/erbbfit/internal/integrators"
	"github.com/san-kum/erbbfit/internal/mcmc"
	"github.com/san-kum/erbbfit/internal/model"
	"github.com/san-kum/erbbfit/internal/network"
	"github.com/san-kum/erbbfit/internal/odesim"
	"github.com/san-kum/erbbfit/internal/storage"
	"github.com/san-kum/erbbfit/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	nsteps     int
	seed       int64
	scenario   string
	dataFile   string
	sigmaFile  string
	live       bool
	// simulate
	duration float64
	points   int
	// network
	listReactions bool
	// export
	outFile string
	width   int
	height  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "erbbfit",
		Short: "ErbB signaling model calibration lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".erbbfit", "run data directory")

	calibrateCmd := &cobra.Command{
		Use:   "calibrate",
		Short: "fit rate parameters against experimental time courses",
		RunE:  runCalibrate,
	}
	calibrateCmd.Flags().StringVar(&preset, "preset", "a431-highegf", "preset scenario")
	calibrateCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	calibrateCmd.Flags().IntVar(&nsteps, "nsteps", 0, "number of chain steps")
	calibrateCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	calibrateCmd.Flags().StringVar(&scenario, "scenario", "", "scenario (rates, rates-hessian)")
	calibrateCmd.Flags().StringVar(&dataFile, "data-file", "data/a431_highegf.csv", "experimental data CSV")
	calibrateCmd.Flags().StringVar(&sigmaFile, "sigma-file", "data/a431_highegf_sigma.csv", "experimental sigma CSV")
	calibrateCmd.Flags().BoolVar(&live, "live", false, "live chain monitor")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "integrate the nominal model and plot observables",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Float64Var(&duration, "time", 7200, "simulated seconds")
	simulateCmd.Flags().IntVar(&points, "points", 120, "number of sample points")

	networkCmd := &cobra.Command{
		Use:   "network",
		Short: "expand the model into elementary reactions",
		RunE:  runNetwork,
	}
	networkCmd.Flags().BoolVar(&listReactions, "reactions", false, "print every reaction")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot data vs fitted trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "posterior summaries and effective sample sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  summarizeRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the posterior samples to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the fit plot as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output path (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 500, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCENARIO\tNSTEPS\tTSPAN POINTS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", name, cfg.Scenario, cfg.Nsteps, len(cfg.Tspan))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(calibrateCmd, simulateCmd, networkCmd, plotCmd, summaryCmd,
		listCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("nsteps") {
		cfg.Nsteps = nsteps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = scenario
	}
	if cmd.Flags().Changed("data-file") || cfg.Data.Values == "" {
		cfg.Data.Values = dataFile
	}
	if cmd.Flags().Changed("sigma-file") || cfg.Data.Sigma == "" {
		cfg.Data.Sigma = sigmaFile
	}
	return cfg, cfg.Validate()
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	dataset, err := dataio.Load(cfg.Data.Values, cfg.Data.Sigma)
	if err != nil {
		return err
	}

	m, err := model.New()
	if err != nil {
		return err
	}

	fmt.Println("expanding reaction network...")
	cal, err := fit.NewCalibration(m, dataset, cfg.FitOpts())
	if err != nil {
		return err
	}
	net := cal.Network()
	fmt.Printf("species: %d, reactions: %d, estimated parameters: %d\n",
		len(net.Species), len(net.Reactions), len(cal.ParamNames()))

	opts := cfg.MCMCOpts()
	start := time.Now()

	var res *fit.Result
	if live {
		res, err = calibrateLive(cfg, cal, opts)
	} else {
		opts.Step = fit.ConsoleStep(os.Stdout)
		res, err = cal.Run(context.Background(), opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("\ncompleted in %v\n", elapsed)
	fmt.Printf("acceptance: %.3f, posterior samples: %d\n",
		res.Chain.AcceptanceRate(), len(res.Posterior))
	fmt.Printf("best posterior: %.4f (likelihood %.4f, prior %.4f)\n\n",
		res.Best.Posterior, res.Best.Likelihood, res.Best.Prior)
	res.Report(os.Stdout)

	runID, err := st.SaveRun(cfg.Scenario, cfg.Seed, res, elapsed)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func calibrateLive(cfg *config.Config, cal *fit.Calibration, opts mcmc.Opts) (*fit.Result, error) {
	monitor := viz.NewMonitor(cfg.Scenario, cfg.Nsteps)

	opts.Step = func(c *mcmc.Chain) {
		if c.Iter%10 != 0 {
			return
		}
		monitor.Send(viz.ChainUpdate{
			Iter:       c.Iter,
			Sigma:      c.Sigma,
			T:          c.T,
			Acceptance: c.AcceptanceRate(),
			Likelihood: c.AcceptLikelihood,
			Prior:      c.AcceptPrior,
			Posterior:  c.AcceptPosterior,
		})
	}

	type outcome struct {
		res *fit.Result
		err error
	}
	results := make(chan outcome, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		res, err := cal.Run(ctx, opts)
		monitor.Done(err)
		results <- outcome{res, err}
	}()

	if err := monitor.Run(); err != nil {
		return nil, err
	}
	cancel() // quitting the panel stops the chain
	out := <-results
	return out.res, out.err
}

func runSimulate(cmd *cobra.Command, args []string) error {
	m, err := model.New()
	if err != nil {
		return err
	}

	fmt.Println("expanding reaction network...")
	net, err := network.Expand(m, network.DefaultOptions())
	if err != nil {
		return err
	}
	sys := network.NewSystem(net)
	fmt.Printf("species: %d, reactions: %d\n\n", len(net.Species), len(net.Reactions))

	tspan := make([]float64, points)
	for i := range tspan {
		tspan[i] = duration * float64(i) / float64(points-1)
	}

	sim := odesim.New(sys, integrators.NewRK45())
	traj, err := sim.Sample(context.Background(), sys.X0(), tspan, odesim.DefaultConfig())
	if err != nil {
		return err
	}

	series := sys.ObservableSeries(traj)
	for col, name := range sys.ObservableNames() {
		data := make([]float64, len(series))
		for i := range series {
			data[i] = series[i][col]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s over %.0fs", name, duration)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runNetwork(cmd *cobra.Command, args []string) error {
	m, err := model.New()
	if err != nil {
		return err
	}

	start := time.Now()
	net, err := network.Expand(m, network.DefaultOptions())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("monomers: %d\n", len(m.Monomers))
	fmt.Printf("rules: %d\n", len(m.Rules))
	fmt.Printf("species: %d\n", len(net.Species))
	fmt.Printf("reactions: %d\n", len(net.Reactions))
	fmt.Printf("rate parameters: %d\n", len(m.RuleParameters()))
	fmt.Printf("expanded in %v\n", elapsed)

	if !listReactions {
		return nil
	}
	fmt.Println()
	for i, r := range net.Reactions {
		fmt.Printf("%4d  %s (x%g)\n", i, r.RuleName, r.Rate)
		for _, si := range r.Reactants {
			fmt.Printf("        - %s\n", net.Species[si].Key())
		}
		for _, si := range r.Products {
			fmt.Printf("        + %s\n", net.Species[si].Key())
		}
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s, acceptance: %.3f, best posterior: %.4f\n\n",
		meta.Scenario, meta.Acceptance, meta.BestPosterior)

	for j, name := range tr.Names {
		fitted := make([]float64, len(tr.Times))
		initial := make([]float64, len(tr.Times))
		for i := range tr.Times {
			fitted[i] = tr.Fitted[i][j]
			initial[i] = tr.Initial[i][j]
		}
		graph := asciigraph.PlotMany([][]float64{initial, fitted},
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(name+" (initial vs fitted, normalized)"),
		)
		fmt.Println(graph)

		fmt.Print("data:  ")
		for i := range tr.Times {
			fmt.Printf("%.3f ", tr.Data[i][j])
		}
		fmt.Println()
		fmt.Println()
	}
	return nil
}

func summarizeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	header, rows, err := st.LoadPosterior(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no posterior samples in run %s", runID)
	}
	nparams := len(header) - 3 // trailing score columns

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tMEAN\tMEDIAN\tSTDDEV\t2.5%\t97.5%\tESS")
	for j := 0; j < nparams; j++ {
		trace := make([]float64, len(rows))
		for i := range rows {
			trace[i] = rows[i][j]
		}
		s, err := analysis.Summarize(trace)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.0f\n",
			header[j], s.Mean, s.Median, s.StdDev, s.Lo, s.Hi,
			analysis.EffectiveSampleSize(trace))
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tNSTEPS\tACCEPT\tBEST POST\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\t%.4f\t%.1fs\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nsteps,
			run.Acceptance,
			run.BestPosterior,
			run.ElapsedSec,
		)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	header, rows, err := st.LoadPosterior(runID)
	if err != nil {
		return err
	}
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
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
	fitted, err := st.LoadFitted(runID)
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}
	return export.WriteRunJSON(os.Stdout, meta, fitted, tr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	tr, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}
	svg := export.FitPlotSVG(tr, width, height)
	if svg == "" {
		return fmt.Errorf("run %s has no plottable trajectories", runID)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
