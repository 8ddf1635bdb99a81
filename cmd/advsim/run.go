package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/advsim/internal/config"
	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/metrics"
	"github.com/san-kum/advsim/internal/sim"
	"github.com/san-kum/advsim/internal/storage"
	"github.com/san-kum/advsim/internal/viz"
)

// buildConfig layers preset, config file and explicitly set flags, in
// that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("points") {
		cfg.Points = points
	}
	if f.Changed("length") {
		cfg.SetLength(length)
	}
	if f.Changed("time") {
		cfg.SetDuration(duration)
	}
	if f.Changed("cfl") {
		cfg.CFL = cfl
	}
	if f.Changed("omega") {
		cfg.Omega = omega
	}
	if f.Changed("periodic") {
		cfg.Periodic = periodic
	}
	if f.Changed("smoothed") {
		cfg.Smoothed = smoothed
	}
	if f.Changed("l4") {
		cfg.L4 = l4
	}
	if f.Changed("mdt") {
		cfg.MDT = mdt
	}
	if f.Changed("inflow") {
		cfg.Inflow = inflow
	}
	if f.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if f.Changed("validate") {
		cfg.ValidateState = validateState
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func execute(ctx context.Context, cfg sim.Config) (*sim.Result, error) {
	g, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	s := sim.New(sim.WithLogger(logger))
	for _, m := range metrics.Defaults(g) {
		s.AddMetric(m)
	}
	return s.Run(ctx, cfg)
}

func runDefault(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	result, err := execute(ctx, sim.DefaultConfig())
	if err != nil {
		return err
	}
	return viz.Run(result.Domain, result.History, result.Residuals, "advection")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("config saved", zap.String("path", saveConfig))
	}

	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "run"
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, runErr := execute(ctx, simCfg)
	elapsed := time.Since(start)

	if result == nil {
		return runErr
	}
	if errors.Is(runErr, context.Canceled) {
		fmt.Printf("interrupted after %d of %d steps, not saved\n", result.Steps, simCfg.Steps())
		return runErr
	}

	runID, err := st.Save(name, simCfg, result)
	if err != nil {
		return err
	}
	logger.Debug("run saved", zap.String("id", runID), zap.Duration("elapsed", elapsed))

	printSummary(runID, simCfg, result, elapsed)
	if runErr != nil {
		return runErr
	}

	if openView {
		return viz.Run(result.Domain, result.History, result.Residuals, runID)
	}
	return nil
}

func printSummary(runID string, cfg sim.Config, result *sim.Result, elapsed time.Duration) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run:\t%s\n", runID)
	fmt.Fprintf(w, "grid:\tn=%d L=%.4f periodic=%v\n", cfg.Points, cfg.Length, cfg.Periodic)
	fmt.Fprintf(w, "steps:\t%d (dt=%.6f)\n", result.Steps, result.Dt)
	if cfg.Smoothed {
		fmt.Fprintf(w, "smoothing:\tmdt=%g boundary=%s\n", cfg.MDT, cfg.Boundary)
	}
	if n := len(result.Residuals); n > 0 {
		fmt.Fprintf(w, "final residual:\t%.6e\n", result.Residuals[n-1])
	}
	fmt.Fprintf(w, "max |u|:\t%.6f\n", result.Final().MaxAbs())
	fmt.Fprintf(w, "elapsed:\t%v\n", elapsed.Round(time.Microsecond))

	names := make([]string, 0, len(result.Metrics))
	for k := range result.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(w, "%s:\t%.6g\n", k, result.Metrics[k])
	}
	w.Flush()
}

func viewRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}
	return viz.Run(result.Domain, result.History, result.Residuals, args[0])
}

func benchKernel(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tSMOOTHED\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range benchSize {
		for _, smooth := range []bool{false, true} {
			cfg := sim.DefaultConfig()
			cfg.Points = n
			cfg.Periodic = true
			cfg.Smoothed = smooth
			cfg.MDT = 2
			cfg.Duration = cfg.Length

			g, err := cfg.Grid()
			if err != nil {
				return err
			}
			stepper, err := cfg.NewStepper(g)
			if err != nil {
				return err
			}

			u := sim.InitialCondition(g, cfg.Omega)
			steps := cfg.Steps()
			start := time.Now()
			for i := 0; i < steps; i++ {
				stepper.Step(u)
			}
			elapsed := time.Since(start)

			rate := float64(steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%v\t%d\t%v\t%.0f\n", n, smooth, steps, elapsed.Round(time.Microsecond), rate)
			if !u.IsFinite() {
				logger.Warn("benchmark run diverged", zap.Int("points", n), zap.Error(grid.ErrDiverged))
			}
		}
	}
	return w.Flush()
}
