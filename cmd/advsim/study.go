package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/advsim/internal/analysis"
	"github.com/san-kum/advsim/internal/config"
	"github.com/san-kum/advsim/internal/smoothing"
	"github.com/san-kum/advsim/internal/sweep"
)

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOINTS\tCFL\tSTEPS\tKIND")

	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name).SimConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%s\n", name, cfg.Points, cfg.CFL, cfg.Steps(), describe(cfg))
	}
	return w.Flush()
}

func smootherResponse(cmd *cobra.Command, args []string) error {
	modes, err := analysis.SmoothingResponse(points, mdt, smoothing.WithSweeps(sweeps))
	if err != nil {
		return err
	}

	beta, gamma := smoothing.Coefficients(mdt)
	fmt.Printf("mdt=%g beta=%.4f gamma=%.4f sweeps=%d\n\n", mdt, beta, gamma, sweeps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "K\tTHETA\tCERS\tCIRS\tCHAIN\tCERS(M)\tCIRS(M)\tCHAIN(M)\t")
	for _, m := range modes {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			m.K, m.Theta,
			m.Explicit, m.Implicit, m.Combined,
			m.MeasuredExplicit, m.MeasuredImplicit, m.MeasuredCombined)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	var variants []sweep.Variant
	if mdtList != "" {
		v, err := sweep.ParseMDTs(mdtList)
		if err != nil {
			return err
		}
		variants = append(variants, v...)
	}
	if cflList != "" {
		v, err := sweep.ParseCFLs(cflList)
		if err != nil {
			return err
		}
		variants = append(variants, v...)
	}
	if len(variants) == 0 {
		return errors.New("nothing to sweep: set --mdts and/or --cfls")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("sweep starting", zap.Int("variants", len(variants)), zap.Int("jobs", jobs))
	summaries, err := sweep.Run(ctx, base, variants, jobs, sweep.WithLogger(logger))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tSTEPS\tFINAL RESIDUAL\tMAX |U|\tCONVERGENCE\tSTATUS")
	for _, s := range summaries {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%.4e\t%.4f\t%.3f\t%s\n",
			s.Name, s.Steps, s.FinalResidual, s.MaxAbs, s.Metrics["convergence"], status)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}
