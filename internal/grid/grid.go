package grid

import "fmt"

// MinPoints is the narrowest grid the fourth-difference stencil supports:
// two neighbours on each side of a point.
const MinPoints = 5

// Grid is a uniform 1-D mesh with spacing h = length/n.
type Grid struct {
	n        int
	h        float64
	length   float64
	periodic bool
}

func New(n int, length float64, periodic bool) (Grid, error) {
	if n < MinPoints {
		return Grid{}, Invalid("n", float64(n), ErrTooFewPoints)
	}
	if !(length > 0) {
		return Grid{}, Invalid("length", length, ErrNonPositiveLength)
	}
	return Grid{n: n, h: length / float64(n), length: length, periodic: periodic}, nil
}

// MustNew is New for grids known to be valid; it panics otherwise.
func MustNew(n int, length float64, periodic bool) Grid {
	g, err := New(n, length, periodic)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Grid) N() int          { return g.n }
func (g Grid) H() float64      { return g.h }
func (g Grid) Length() float64 { return g.length }
func (g Grid) Periodic() bool  { return g.periodic }
func (g Grid) NewField() Field { return make(Field, g.n) }

// Coordinates returns x[j] = j*h. The right end of the domain is not a grid
// point; on a periodic grid it coincides with x[0].
func (g Grid) Coordinates() Field {
	x := make(Field, g.n)
	for j := range x {
		x[j] = float64(j) * g.h
	}
	return x
}

// Check panics with ErrLengthMismatch when f does not belong on g.
func (g Grid) Check(name string, f Field) {
	if len(f) != g.n {
		panic(fmt.Errorf("%s has %d values on a %d-point grid: %w", name, len(f), g.n, ErrLengthMismatch))
	}
}

func (g Grid) String() string {
	bc := "open"
	if g.periodic {
		bc = "periodic"
	}
	return fmt.Sprintf("grid(n=%d, h=%.6g, %s)", g.n, g.h, bc)
}
