// Package smoothing implements central residual smoothing.
//
// Two filters damp the high-frequency content of a residual so the explicit
// scheme tolerates a timestep mdt times larger than its own limit:
//
//   - [Smoother.Explicit]: central explicit smoothing (CERS), one pass
//   - [Smoother.Implicit]: central implicit smoothing (CIRS), a fixed number
//     of Jacobi sweeps of (I - beta*Laplacian) r = (mdt/1.2) r0
//
// The implicit coefficient beta = (mdt^2-1)/4 follows Enander (1993). The
// 1.2 divisor compensates the overshoot of the scheme's Fourier symbol near
// the stability boundary.
//
// # Boundary policy
//
// On open grids the explicit filter corrects the outflow point n-1 with
// its single interior neighbour. Whether the inflow point 0 receives a
// correction is selected with [BoundaryPolicy]; the integrator zeroes the
// inflow residual around the filter so its output does not depend on it.
//
// A Smoother owns scratch buffers and must not be shared between goroutines.
package smoothing
