package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/advsim/internal/analysis"
	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/sim"
	"github.com/san-kum/advsim/internal/storage"
)

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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPOINTS\tSTEPS\tDT\tSMOOTHED")

	for _, run := range runs {
		smooth := "-"
		if run.Config.Smoothed {
			smooth = fmt.Sprintf("mdt=%g", run.Config.MDT)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Points,
			run.Steps,
			run.Dt,
			smooth,
		)
	}

	return w.Flush()
}

// pickSlice resolves a possibly negative snapshot index.
func pickSlice(history []grid.Field, want int) (int, grid.Field, error) {
	n := len(history)
	i := want
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, nil, fmt.Errorf("slice %d out of range (history holds %d snapshots)", want, n)
	}
	return i, history[i], nil
}

func finiteLog10(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 1) {
			out = append(out, math.Log10(v))
		}
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}

	idx, u, err := pickSlice(result.History, sliceIndex)
	if err != nil {
		return err
	}
	if !u.IsFinite() {
		return fmt.Errorf("snapshot %d: %w", idx, grid.ErrDiverged)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("snapshot: %d/%d (t=%.4f)\n\n", idx, len(result.History)-1, result.Times[idx])

	graph := asciigraph.Plot(u,
		asciigraph.Height(12),
		asciigraph.Width(60),
		asciigraph.Caption("u(x)"))
	fmt.Println(graph)
	fmt.Println()

	if series := finiteLog10(result.Residuals); len(series) > 1 {
		graph = asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("log10 residual vs step"))
		fmt.Println(graph)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	_, result, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}
	if len(result.History) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteHistoryCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, result)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, meta, result); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outFile)
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadRun(args[0])
	if err != nil {
		return err
	}

	idx, u, err := pickSlice(result.History, sliceIndex)
	if err != nil {
		return err
	}
	if !u.IsFinite() {
		return fmt.Errorf("snapshot %d: %w", idx, grid.ErrDiverged)
	}
	if !meta.Config.Periodic {
		fmt.Println("note: open grid, the spectrum includes the boundary discontinuity")
	}

	amps := analysis.Spectrum(u)
	k, amp := analysis.DominantMode(amps)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("snapshot: %d, mean: %.6f, dominant mode: k=%d (amplitude %.6f)\n\n", idx, amps[0], k, amp)

	if len(amps) > 2 {
		fmt.Println(asciigraph.Plot(amps[1:],
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("amplitude vs wavenumber (k >= 1)")))
	}
	return nil
}

func describe(cfg sim.Config) string {
	kind := "ramp"
	if cfg.Periodic {
		kind = "cosine"
	}
	if cfg.Smoothed {
		kind += fmt.Sprintf(", smoothed mdt=%g", cfg.MDT)
	}
	return kind
}
