// Package viz renders solution histories in the terminal.
//
//   - [Cursor]: wrapping position within a history
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [Viewer]: Bubble Tea model stepping through the snapshots of a run
//
// # Key Bindings
//
//	up, k, wheel up     - previous snapshot
//	down, j, wheel down - next snapshot
//	space               - play/pause
//	home, end           - first/last snapshot
//	t                   - cycle color themes
//	q                   - quit
//
// The viewer only reads the history; it never drives the solver.
package viz
