// Package physics implements the per-frame gravity integrator.
//
// Every particle is pulled toward (or pushed away from) a single gravity
// point. Force falls off with the inverse of distance rather than its square,
// which keeps orbits visually stable:
//
//	magnitude = force * dt * sign / (distance / 2)
//
// A frame runs in two passes. [Gravity.Accelerate] updates every velocity and
// clamps it to the speed limit; [Gravity.Advance] then moves every particle
// by its finished velocity. Particles never interact with each other, so the
// order within a pass does not matter.
//
// # Dead Zone
//
// Particles closer to the gravity point than [Gravity.DeadZone] receive no
// force that frame, which avoids the singularity at distance zero.
//
// # Example
//
//	g := physics.NewGravity()
//	stats := g.Step(state.Particles, state.Gravity, state.Mode, dt)
package physics
