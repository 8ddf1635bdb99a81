package integrators

import (
	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/smoothing"
	"github.com/san-kum/advsim/internal/stencil"
)

// DefaultInflow is the Dirichlet value imposed at point 0 of open grids.
const DefaultInflow = 1.0

// DefaultAlpha are the stage coefficients of the three-stage scheme.
var DefaultAlpha = []float64{0.6, 0.6, 1.0}

// Stepper advances a field by one timestep of length Dt in place and
// returns the timestep's residual norm.
type Stepper interface {
	Step(u grid.Field) float64
	Dt() float64
}

var _ Stepper = (*LowStorageRK)(nil)

// LowStorageRK is a multi-stage scheme in which every stage restarts from
// the start-of-step field: u = u0 - alpha[k]*dt*R(u).
type LowStorageRK struct {
	grid     grid.Grid
	dt, l4   float64
	alpha    []float64
	smoother *smoothing.Smoother
	inflow   float64

	u0, r0, d4, r grid.Field
}

type Option func(*LowStorageRK)

func WithAlpha(alpha []float64) Option {
	return func(rk *LowStorageRK) { rk.alpha = append([]float64(nil), alpha...) }
}

// WithSmoother enables residual smoothing in every stage.
func WithSmoother(s *smoothing.Smoother) Option {
	return func(rk *LowStorageRK) { rk.smoother = s }
}

func WithInflow(v float64) Option {
	return func(rk *LowStorageRK) { rk.inflow = v }
}

func NewLowStorageRK(g grid.Grid, dt, l4 float64, opts ...Option) (*LowStorageRK, error) {
	if !(dt > 0) {
		return nil, grid.Invalid("dt", dt, grid.ErrNonPositiveTimestep)
	}
	rk := &LowStorageRK{
		grid:   g,
		dt:     dt,
		l4:     l4,
		alpha:  append([]float64(nil), DefaultAlpha...),
		inflow: DefaultInflow,
		u0:     g.NewField(),
		r0:     g.NewField(),
		d4:     g.NewField(),
		r:      g.NewField(),
	}
	for _, opt := range opts {
		opt(rk)
	}
	if len(rk.alpha) == 0 {
		return nil, grid.Invalid("stages", 0, grid.ErrParameterBounds)
	}
	return rk, nil
}

func (rk *LowStorageRK) Dt() float64     { return rk.dt }
func (rk *LowStorageRK) Stages() int     { return len(rk.alpha) }
func (rk *LowStorageRK) Smoothed() bool  { return rk.smoother != nil }
func (rk *LowStorageRK) Grid() grid.Grid { return rk.grid }

// Residual evaluates the (optionally smoothed) flux residual of u. The
// returned field is scratch owned by rk and is overwritten by the next call.
func (rk *LowStorageRK) Residual(u grid.Field) grid.Field {
	r0 := stencil.FluxResidual(rk.grid, u, rk.l4, rk.r0, rk.d4)
	if rk.smoother == nil {
		return r0
	}
	return rk.smoother.Chain(r0, rk.r)
}

// Step advances u by one timestep and returns sum|u-u0|/dt.
func (rk *LowStorageRK) Step(u grid.Field) float64 {
	rk.grid.Check("u", u)
	copy(rk.u0, u)

	for _, a := range rk.alpha {
		r := rk.Residual(u)
		adt := a * rk.dt
		for i := range u {
			u[i] = rk.u0[i] - adt*r[i]
		}
		if !rk.grid.Periodic() {
			u[0] = rk.inflow
		}
	}

	return u.L1Distance(rk.u0) / rk.dt
}
