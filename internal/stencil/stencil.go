// Package stencil implements the finite-difference operators of the scheme.
//
// Both operators write into a caller-supplied buffer when it has the right
// length and allocate otherwise. The output must not alias the input.
package stencil

import "github.com/san-kum/advsim/internal/grid"

// SecondDifference is the second-order central first difference
// du[i] = (u[i+1]-u[i-1])/2. Open boundaries use one-sided differences
// without the factor 1/2.
func SecondDifference(g grid.Grid, u, dst grid.Field) grid.Field {
	g.Check("u", u)
	n := g.N()
	du := dst.Reuse(n)

	for i := 1; i < n-1; i++ {
		du[i] = 0.5 * (u[i+1] - u[i-1])
	}

	if g.Periodic() {
		du[n-1] = 0.5 * (u[0] - u[n-2])
		du[0] = 0.5 * (u[1] - u[n-1])
	} else {
		du[n-1] = u[n-1] - u[n-2]
		du[0] = u[1] - u[0]
	}
	return du
}

// FourthDifference is the five-point fourth difference used as artificial
// dissipation. Open boundaries copy the nearest interior value into the two
// edge points at each end.
func FourthDifference(g grid.Grid, u, dst grid.Field) grid.Field {
	g.Check("u", u)
	n := g.N()
	du := dst.Reuse(n)

	for i := 2; i < n-2; i++ {
		du[i] = biharmonic(u[i-2], u[i-1], u[i], u[i+1], u[i+2])
	}

	if g.Periodic() {
		du[n-2] = biharmonic(u[n-4], u[n-3], u[n-2], u[n-1], u[0])
		du[n-1] = biharmonic(u[n-3], u[n-2], u[n-1], u[0], u[1])
		du[0] = biharmonic(u[n-2], u[n-1], u[0], u[1], u[2])
		du[1] = biharmonic(u[n-1], u[0], u[1], u[2], u[3])
	} else {
		du[n-2] = du[n-3]
		du[n-1] = du[n-3]
		du[0] = du[2]
		du[1] = du[2]
	}
	return du
}

func biharmonic(um2, um1, u0, up1, up2 float64) float64 {
	return um2 - 4*um1 + 6*u0 - 4*up1 + up2
}

// FluxResidual computes (SecondDifference(u) + l4*FourthDifference(u))/h.
// scratch holds the fourth difference and may be nil.
func FluxResidual(g grid.Grid, u grid.Field, l4 float64, dst, scratch grid.Field) grid.Field {
	r := SecondDifference(g, u, dst)
	d4 := FourthDifference(g, u, scratch)
	h := g.H()
	for i := range r {
		r[i] = (r[i] + l4*d4[i]) / h
	}
	return r
}
