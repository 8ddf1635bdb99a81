package sim

import (
	"math"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/integrators"
	"github.com/san-kum/advsim/internal/smoothing"
)

// Config holds every parameter of a run. It is passed by value and never
// modified by the simulator.
type Config struct {
	Points   int                      `json:"points"`
	Length   float64                  `json:"length"`
	Duration float64                  `json:"duration"`
	CFL      float64                  `json:"cfl"`
	Omega    float64                  `json:"omega"`
	Periodic bool                     `json:"periodic"`
	Smoothed bool                     `json:"smoothed"`
	L4       float64                  `json:"l4"`
	MDT      float64                  `json:"mdt"`
	Alpha    []float64                `json:"alpha"`
	Inflow   float64                  `json:"inflow"`
	Boundary smoothing.BoundaryPolicy `json:"boundary"`

	// ValidateState stops the run with grid.ErrDiverged once the solution
	// holds NaN or Inf. Off by default: divergence is otherwise only visible
	// in the residual log.
	ValidateState bool `json:"validate_state"`
}

func DefaultConfig() Config {
	return Config{
		Points:   64,
		Length:   2 * math.Pi,
		Duration: 0.1 * 2 * math.Pi,
		CFL:      1.0,
		Omega:    1.0,
		L4:       1.0 / 32,
		MDT:      10,
		Alpha:    append([]float64(nil), integrators.DefaultAlpha...),
		Inflow:   integrators.DefaultInflow,
	}
}

func (c Config) Validate() error {
	if _, err := c.Grid(); err != nil {
		return err
	}
	if !(c.Duration > 0) {
		return grid.Invalid("duration", c.Duration, grid.ErrParameterBounds)
	}
	if !(c.CFL > 0) {
		return grid.Invalid("cfl", c.CFL, grid.ErrNonPositiveTimestep)
	}
	if c.Smoothed && !(c.MDT >= 1) {
		return grid.Invalid("mdt", c.MDT, grid.ErrParameterBounds)
	}
	if len(c.Alpha) == 0 {
		return grid.Invalid("stages", 0, grid.ErrParameterBounds)
	}
	return nil
}

func (c Config) Grid() (grid.Grid, error) {
	return grid.New(c.Points, c.Length, c.Periodic)
}

// Timestep is dt = cfl*h, with h rounded first as the grid rounds it.
func (c Config) Timestep() float64 {
	return c.CFL * (c.Length / float64(c.Points))
}

// Steps is floor(duration/dt).
func (c Config) Steps() int {
	return int(math.Floor(c.Duration / c.Timestep()))
}

// NewStepper builds the time integrator described by c on g.
func (c Config) NewStepper(g grid.Grid) (*integrators.LowStorageRK, error) {
	opts := []integrators.Option{
		integrators.WithAlpha(c.Alpha),
		integrators.WithInflow(c.Inflow),
	}
	if c.Smoothed {
		s, err := smoothing.New(g, c.MDT, smoothing.WithBoundaryPolicy(c.Boundary))
		if err != nil {
			return nil, err
		}
		opts = append(opts, integrators.WithSmoother(s))
	}
	return integrators.NewLowStorageRK(g, c.Timestep(), c.L4, opts...)
}

// InitialCondition samples cos(omega*x) on periodic grids and the ramp
// 1 - x/(2*pi) on open grids.
func InitialCondition(g grid.Grid, omega float64) grid.Field {
	x := g.Coordinates()
	u := g.NewField()
	for j := range u {
		if g.Periodic() {
			u[j] = math.Cos(omega * x[j])
		} else {
			u[j] = 1 - x[j]/(2*math.Pi)
		}
	}
	return u
}
