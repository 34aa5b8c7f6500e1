// Package viz renders simulation results for the terminal.
//
//   - [WriteReport] and [WriteDiagnostics]: plain "Label: value" output
//   - [RenderReport]: the same report styled with lipgloss
//   - [Model]: a Bubble Tea live view of a running [sim.Simulation]
//   - [Canvas]: braille sub-pixel canvas used by the live view
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Advance one step
//	< >   - Halve/double steps per frame
//	x/y   - Rotate the camera
//	+/-   - Zoom
//	C     - Reset camera
//	?     - Show help overlay
package viz
