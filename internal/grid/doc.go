// Package grid provides the domain primitives shared by the solver.
//
// The package defines the uniform 1-D mesh and the sampled fields that live
// on it:
//
//   - [Grid]: immutable point count, spacing and periodicity
//   - [Field]: solution or residual values, one per grid point
//
// # Example
//
//	g, err := grid.New(64, 2*math.Pi, true)
//	if err != nil {
//	    return err
//	}
//	u := g.NewField()
//
// Grid values are safe to share between goroutines. Fields are plain
// slices and carry no synchronisation.
package grid
