package metrics

import (
	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/sim"
)

// StabilityThreshold bounds max|u| for a run whose data lies in [-1, 1].
const StabilityThreshold = 1.5

// Defaults returns the metrics attached to every CLI run on g.
func Defaults(g grid.Grid) []sim.Metric {
	return []sim.Metric{
		NewConvergence(),
		NewPeakResidual(),
		NewStability(StabilityThreshold),
		NewMassDrift(g.H()),
	}
}
