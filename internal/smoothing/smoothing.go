package smoothing

import (
	"fmt"
	"math"

	"github.com/san-kum/advsim/internal/grid"
)

const (
	// DefaultSweeps is the fixed Jacobi sweep count of the implicit filter.
	DefaultSweeps = 100

	overshoot = 1.2
)

// BoundaryPolicy selects the explicit filter's treatment of the inflow
// point on open grids.
type BoundaryPolicy int

const (
	// OutflowOnly corrects only point n-1, using neighbour n-2.
	OutflowOnly BoundaryPolicy = iota
	// WrapInflow additionally corrects point 0 with gamma*(r[n-1]-r[0]).
	WrapInflow
)

func (p BoundaryPolicy) String() string {
	switch p {
	case OutflowOnly:
		return "outflow"
	case WrapInflow:
		return "wrap"
	default:
		return fmt.Sprintf("BoundaryPolicy(%d)", int(p))
	}
}

func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch s {
	case "", "outflow":
		return OutflowOnly, nil
	case "wrap":
		return WrapInflow, nil
	}
	return OutflowOnly, fmt.Errorf("unknown boundary policy: %s (want outflow or wrap)", s)
}

func (p BoundaryPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *BoundaryPolicy) UnmarshalText(text []byte) error {
	v, err := ParseBoundaryPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Coefficients returns the implicit coefficient beta and the explicit
// coefficient gamma for a timestep growth factor mdt.
func Coefficients(mdt float64) (beta, gamma float64) {
	beta = 0.25 * (mdt*mdt - 1)
	gamma = 0.25 * ((1+4*beta)/mdt - 1)
	return beta, gamma
}

type Smoother struct {
	grid        grid.Grid
	mdt         float64
	beta, gamma float64
	sweeps      int
	policy      BoundaryPolicy

	work, r1 grid.Field
	prev     grid.Field
	next     grid.Field
}

type Option func(*Smoother)

// WithSweeps overrides the Jacobi sweep count.
func WithSweeps(n int) Option {
	return func(s *Smoother) { s.sweeps = n }
}

func WithBoundaryPolicy(p BoundaryPolicy) Option {
	return func(s *Smoother) { s.policy = p }
}

func New(g grid.Grid, mdt float64, opts ...Option) (*Smoother, error) {
	if !(mdt >= 1) || math.IsInf(mdt, 0) {
		return nil, grid.Invalid("mdt", mdt, grid.ErrParameterBounds)
	}
	beta, gamma := Coefficients(mdt)
	s := &Smoother{
		grid:   g,
		mdt:    mdt,
		beta:   beta,
		gamma:  gamma,
		sweeps: DefaultSweeps,
		policy: OutflowOnly,
		work:   g.NewField(),
		r1:     g.NewField(),
		prev:   g.NewField(),
		next:   g.NewField(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sweeps < 1 {
		return nil, grid.Invalid("sweeps", float64(s.sweeps), grid.ErrParameterBounds)
	}
	return s, nil
}

func (s *Smoother) MDT() float64           { return s.mdt }
func (s *Smoother) Beta() float64          { return s.beta }
func (s *Smoother) Gamma() float64         { return s.gamma }
func (s *Smoother) Sweeps() int            { return s.sweeps }
func (s *Smoother) Policy() BoundaryPolicy { return s.policy }

// Explicit applies one pass of central explicit smoothing,
// r1[i] = r0[i] + gamma*(r0[i-1]-r0[i]) + gamma*(r0[i+1]-r0[i]).
// Every term reads the unmodified input; dst may alias r0.
func (s *Smoother) Explicit(r0, dst grid.Field) grid.Field {
	s.grid.Check("r0", r0)
	n, g := s.grid.N(), s.gamma
	w := s.work

	for i := 1; i < n-1; i++ {
		w[i] = r0[i] + g*(r0[i-1]-r0[i]) + g*(r0[i+1]-r0[i])
	}

	if s.grid.Periodic() {
		w[0] = r0[0] + g*(r0[n-1]-r0[0]) + g*(r0[1]-r0[0])
		w[n-1] = r0[n-1] + g*(r0[n-2]-r0[n-1]) + g*(r0[0]-r0[n-1])
	} else {
		w[0] = r0[0]
		if s.policy == WrapInflow {
			w[0] += g * (r0[n-1] - r0[0])
		}
		w[n-1] = r0[n-1] + g*(r0[n-2]-r0[n-1])
	}

	out := dst.Reuse(n)
	copy(out, w)
	return out
}

// Implicit approximates central implicit smoothing with exactly Sweeps
// Jacobi sweeps, starting from r0. Open grids keep the base term at point 0
// and couple point n-1 to its single interior neighbour. dst may alias r0.
func (s *Smoother) Implicit(r0, dst grid.Field) grid.Field {
	s.grid.Check("r0", r0)
	n, beta := s.grid.N(), s.beta
	denom := 1 + 2*beta

	prev, next := s.prev, s.next
	copy(prev, r0)

	for k := 0; k < s.sweeps; k++ {
		for i := 1; i < n-1; i++ {
			next[i] = (s.mdt*r0[i]/overshoot + beta*(prev[i-1]+prev[i+1])) / denom
		}
		if s.grid.Periodic() {
			next[0] = (s.mdt*r0[0]/overshoot + beta*(prev[n-1]+prev[1])) / denom
			next[n-1] = (s.mdt*r0[n-1]/overshoot + beta*(prev[n-2]+prev[0])) / denom
		} else {
			next[0] = s.mdt * r0[0] / overshoot
			next[n-1] = (s.mdt*r0[n-1]/overshoot + beta*prev[n-2]) / (1 + beta)
		}
		prev, next = next, prev
	}

	out := dst.Reuse(n)
	copy(out, prev)
	return out
}

// Chain is the integrator's smoothing sequence: zero the inflow residual,
// smooth explicitly, zero the inflow residual again and smooth implicitly.
// It overwrites r[0].
func (s *Smoother) Chain(r, dst grid.Field) grid.Field {
	s.grid.Check("r", r)
	r[0] = 0
	r1 := s.Explicit(r, s.r1)
	r1[0] = 0
	return s.Implicit(r1, dst)
}

// ExplicitSymbol is the Fourier amplification of the explicit filter for
// phase angle theta = k*h.
func ExplicitSymbol(mdt, theta float64) float64 {
	_, gamma := Coefficients(mdt)
	sn := math.Sin(0.5 * theta)
	return 1 - 4*gamma*sn*sn
}

// ImplicitSymbol is the Fourier amplification of the converged implicit
// filter for phase angle theta = k*h.
func ImplicitSymbol(mdt, theta float64) float64 {
	beta, _ := Coefficients(mdt)
	sn := math.Sin(0.5 * theta)
	return (mdt / overshoot) / (1 + 4*beta*sn*sn)
}
