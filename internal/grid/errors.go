package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid and solver parameters.
var (
	// ErrTooFewPoints indicates a grid narrower than the five-point stencil.
	ErrTooFewPoints = errors.New("grid: fewer points than the stencil width")

	// ErrNonPositiveLength indicates a zero or negative domain length.
	ErrNonPositiveLength = errors.New("grid: domain length must be positive")

	// ErrLengthMismatch indicates a field whose length differs from the grid.
	ErrLengthMismatch = errors.New("grid: field length does not match grid")

	// ErrNonPositiveTimestep indicates a zero or negative timestep or CFL number.
	ErrNonPositiveTimestep = errors.New("grid: timestep must be positive")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("grid: parameter out of valid bounds")

	// ErrDiverged indicates the field picked up NaN or Inf values.
	ErrDiverged = errors.New("grid: field diverged (NaN or Inf detected)")
)

// PreconditionError wraps a domain error with the offending parameter.
type PreconditionError struct {
	Param   string
	Value   float64
	Wrapped error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Param, e.Value, e.Wrapped)
}

func (e *PreconditionError) Unwrap() error {
	return e.Wrapped
}

// Invalid builds a PreconditionError for param.
func Invalid(param string, value float64, err error) error {
	return &PreconditionError{Param: param, Value: value, Wrapped: err}
}
