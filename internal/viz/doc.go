// Package viz draws trajectories in the terminal on a braille canvas.
//
//   - [Canvas]: 2x4 dot braille grid
//   - [Camera]: perspective projection for three-dimensional flows
//   - [RenderAttractor]: one-shot picture of a stored series
//   - [Model]: Bubble Tea program that draws a system as it runs
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state and parameters
//	←/→   - Switch system
//	Tab   - Select parameter, ↑/↓ to tune it by 5%
//	[ ]   - Halve/double the trail length
//	x/y/z - Rotate the camera
//	?     - Show help overlay
package viz
