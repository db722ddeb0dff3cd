// Package viz renders geodesic runs in the terminal with Bubble Tea.
//
//   - [Model]: live view of one orbit, stepping the integrator every frame
//   - [Menu]: preset picker that launches a [Model]
//   - [Canvas]: Braille pixel canvas, 2×4 dots per cell
//   - [Camera]: rotates and projects the Cartesian orbit onto the canvas
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Advance one frame while paused
//	< >   - Fewer/more ticks per frame
//	R     - Reset to the initial state
//	[ ]   - Scrub through recent history
//	x y   - Rotate the camera (shift reverses)
//	+ -   - Zoom
//	T     - Cycle color themes
//	?     - Show help overlay
//
// The view warns when the body leaves the domain (horizon or axis) and when
// a static observer would measure it moving faster than light.
package viz
