package metrics

import (
	"math"

	"github.com/san-kum/advsim/internal/grid"
)

// Convergence reports how many orders of magnitude the residual dropped
// between the first and the latest step, log10(first/last). It is zero
// until two positive finite residuals have been seen.
type Convergence struct {
	name    string
	first   float64
	last    float64
	samples int
}

func NewConvergence() *Convergence {
	return &Convergence{name: "convergence"}
}

func (c *Convergence) Name() string { return c.name }

func (c *Convergence) Observe(step int, u grid.Field, residual float64) {
	if c.samples == 0 {
		c.first = residual
	}
	c.last = residual
	c.samples++
}

func (c *Convergence) Value() float64 {
	if c.samples < 2 || !positive(c.first) || !positive(c.last) {
		return 0
	}
	return math.Log10(c.first / c.last)
}

func (c *Convergence) Reset() {
	c.first = 0
	c.last = 0
	c.samples = 0
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// PeakResidual is the largest residual observed. NaN is sticky.
type PeakResidual struct {
	name string
	peak float64
}

func NewPeakResidual() *PeakResidual {
	return &PeakResidual{name: "peak_residual"}
}

func (p *PeakResidual) Name() string { return p.name }

func (p *PeakResidual) Observe(step int, u grid.Field, residual float64) {
	p.peak = math.Max(p.peak, residual)
}

func (p *PeakResidual) Value() float64 { return p.peak }

func (p *PeakResidual) Reset() { p.peak = 0 }
