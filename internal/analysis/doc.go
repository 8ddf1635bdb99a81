// Package analysis provides spectral tools for fields and smoothers.
//
//   - [Spectrum]: single-sided amplitude spectrum of a periodic field
//   - [DominantMode]: strongest non-constant wavenumber of a spectrum
//   - [SmoothingResponse]: per-mode damping of the residual smoothers,
//     analytic and measured on a periodic grid
//
// # Smoother response
//
// The explicit filter is exact in one pass, so its measured response
// matches the symbol to rounding. The implicit filter runs a fixed number
// of Jacobi sweeps; for large mdt the modes near the Nyquist limit are
// still converging when the sweeps run out and are damped far less than
// the symbol predicts:
//
//	modes, _ := analysis.SmoothingResponse(64, 10)
//	for _, m := range modes {
//	    fmt.Println(m.K, m.Implicit, m.MeasuredImplicit)
//	}
package analysis
