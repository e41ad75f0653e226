// Package sim wires the input resolver and the gravity integrator into a
// frame loop.
//
// Each call to [Simulator.Frame] runs, in order: the resolver (gravity point,
// mode, flags), the velocity pass, the position pass, then observers. The
// [dynamo.State] is passed explicitly; there is no package-level state.
//
// Interactive backends either implement [Driver] and call [Simulator.Loop],
// or call [Simulator.Frame] from their own update callback. Headless runs use
// [Simulator.Run] with a fixed dt and record [Metric] values per frame.
//
// # Timestep
//
// dt is the real time since the previous frame. It is unclamped unless
// [Simulator.SetMaxDt] is given a positive bound; slow frames then produce
// proportionally larger steps and particles may tunnel past the gravity point.
package sim
