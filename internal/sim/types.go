package sim

import (
	"fmt"

	"github.com/san-kum/advsim/internal/grid"
)

// Metric accumulates a scalar diagnostic over a run.
type Metric interface {
	Name() string
	Observe(step int, u grid.Field, residual float64)
	Value() float64
	Reset()
}

// Observer is notified after every timestep. u is the live solution and
// must not be retained or modified.
type Observer interface {
	OnStep(step int, t float64, u grid.Field, residual float64)
}

// Result is the output of a run. History[0] is the initial condition and
// History[i+1] the solution after timestep i.
type Result struct {
	Domain    grid.Field
	History   []grid.Field
	Residuals []float64
	Times     []float64
	Dt        float64
	Steps     int
	Metrics   map[string]float64
}

// Final returns the last recorded solution.
func (r *Result) Final() grid.Field {
	if len(r.History) == 0 {
		return nil
	}
	return r.History[len(r.History)-1]
}

// StepError reports a failure at a specific timestep.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
