// Package dynamo provides the core primitives of the gravity-point simulator.
//
// The package defines the data shared by the input resolver and the
// physics integrator:
//
//   - [Vec]: 2D vector (gonum spatial/r2)
//   - [Particle]: position and velocity of a single dot
//   - [Mode]: gravity mode (disabled, attract, repel)
//   - [Cycle]: the order in which the mode toggle advances
//   - [State]: the whole simulation, passed by reference each frame
//
// # Coordinate Spaces
//
// The gravity point lives in screen pixels. Particles live in a space scaled
// up by a fixed factor (100 by default) so that force falls off smoothly
// over sub-pixel distances. Renderers divide particle positions by the same
// factor before drawing.
//
// # Thread Safety
//
// A [State] is owned by a single frame loop. The resolver writes the gravity
// point and flags, then the integrator reads them; no locking is involved.
package dynamo
