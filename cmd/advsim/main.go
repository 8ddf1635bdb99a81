package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// run parameters
	points        int
	length        float64
	duration      float64
	cfl           float64
	omega         float64
	periodic      bool
	smoothed      bool
	l4            float64
	mdt           float64
	inflow        float64
	boundary      string
	validateState bool
	configFile    string
	preset        string
	runName       string
	openView      bool
	saveConfig    string

	// inspection
	sliceIndex int
	outFile    string

	// studies
	mdtList   string
	cflList   string
	jobs      int
	sweeps    int
	benchSize []int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "advsim",
		Short: "1-D linear advection with residual smoothing",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		// Default to the legacy run in the viewer when no command given
		RunE: runDefault,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".advsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the history",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset or \"run\")")
	runCmd.Flags().BoolVar(&openView, "view", false, "open the viewer after the run")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved configuration to this yaml file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a snapshot and the residual log",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&sliceIndex, "slice", -1, "snapshot index (negative counts from the end)")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse the history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "amplitude spectrum of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().IntVar(&sliceIndex, "slice", -1, "snapshot index (negative counts from the end)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	responseCmd := &cobra.Command{
		Use:   "response",
		Short: "Fourier response of the residual smoothers",
		Args:  cobra.NoArgs,
		RunE:  smootherResponse,
	}
	responseCmd.Flags().IntVar(&points, "points", 64, "grid points")
	responseCmd.Flags().Float64Var(&mdt, "mdt", 10, "timestep multiplier")
	responseCmd.Flags().IntVar(&sweeps, "sweeps", 100, "implicit Jacobi sweeps")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run parameter variants concurrently",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&mdtList, "mdts", "", "comma separated mdt values (smoothed)")
	sweepCmd.Flags().StringVar(&cflList, "cfls", "", "comma separated CFL numbers")
	sweepCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent runs (default GOMAXPROCS)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the timestep",
		Args:  cobra.NoArgs,
		RunE:  benchKernel,
	}
	benchCmd.Flags().IntSliceVar(&benchSize, "sizes", []int{64, 256, 1024}, "grid sizes")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, viewCmd, exportCSVCmd, exportJSONCmd,
		spectrumCmd, presetsCmd, responseCmd, sweepCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&points, "points", 64, "grid points")
	f.Float64Var(&length, "length", 0, "domain length (default 2*pi)")
	f.Float64Var(&duration, "time", 0, "simulated time (default 0.1*length)")
	f.Float64Var(&cfl, "cfl", 1, "CFL number, dt = cfl*h")
	f.Float64Var(&omega, "omega", 1, "wavenumber of the periodic initial condition")
	f.BoolVar(&periodic, "periodic", false, "periodic grid")
	f.BoolVar(&smoothed, "smoothed", false, "apply residual smoothing")
	f.Float64Var(&l4, "l4", 1.0/32, "fourth difference dissipation coefficient")
	f.Float64Var(&mdt, "mdt", 10, "smoothing timestep multiplier")
	f.Float64Var(&inflow, "inflow", 1, "inflow value on open grids")
	f.StringVar(&boundary, "boundary", "outflow", "explicit smoother inflow policy (outflow|wrap)")
	f.BoolVar(&validateState, "validate", false, "stop when the solution diverges")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}
