// Package viz renders the simulation in a terminal using Bubble Tea.
//
// Particles are plotted on a Braille [Canvas], two sub-pixels wide and four
// tall per cell, mapped from the configured screen size onto the terminal.
//
// # Key Bindings
//
//	Insert     - Toggle general info
//	Delete     - Toggle gravity info
//	R          - Cycle gravity mode
//	P          - Toggle mouse follow
//	K          - Toggle dark mode
//	Arrows / C - Move or recenter the gravity point (modern variant)
//	Mouse      - Move the gravity point (classic variant, or when following)
//	Q / Ctrl+C - Quit
//
// Terminals report key presses, not releases, so a press is treated as a
// release for toggles and as one frame of holding for movement keys.
package viz
