// Package viz renders stored conduction runs in the terminal.
//
// [Model] is a Bubble Tea program that replays a [heat.Field]: a colored
// thermal strip from center to surface, the radial profile of the current
// row, and the center and surface histories up to it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from row 0
//	[ ]   - Scrub backward/forward
//	+ -   - Change replay speed
//	T     - Cycle color themes
//	?     - Show help
package viz
