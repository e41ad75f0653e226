package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	DefaultForce      = 5000000.0
	DefaultSpeedLimit = 7500.0
	DefaultScale      = 100.0
	DefaultDeadZone   = 99.0
)

// Gravity integrates particles around a single gravity point.
type Gravity struct {
	Force      float64
	SpeedLimit float64
	Scale      float64 // screen pixels to particle units
	DeadZone   float64
	Clamp      Clamp
	Pool       *compute.Pool // nil runs serially
}

// Stats summarizes one velocity pass.
type Stats struct {
	Pulled   int // particles that received force
	Inside   int // particles inside the dead zone
	Clamped  int // particles whose velocity hit the speed limit
	Disabled bool
}

func (s *Stats) add(o Stats) {
	s.Pulled += o.Pulled
	s.Inside += o.Inside
	s.Clamped += o.Clamped
}

// NewGravity creates a Gravity with the default constants and vector clamping.
func NewGravity() *Gravity {
	return &Gravity{
		Force:      DefaultForce,
		SpeedLimit: DefaultSpeedLimit,
		Scale:      DefaultScale,
		DeadZone:   DefaultDeadZone,
		Clamp:      ClampVector,
	}
}

// Accelerate applies one frame of pull toward point (screen coordinates) to
// every particle velocity. Velocities of particles inside the dead zone, and
// all velocities when mode is disabled, are left untouched.
func (g *Gravity) Accelerate(ps dynamo.Particles, point dynamo.Vec, mode dynamo.Mode, dt float64) Stats {
	var st Stats
	sign := mode.Sign()
	if sign == 0 {
		st.Disabled = true
		return st
	}

	target := r2.Scale(g.Scale, point)
	clamp := g.Clamp
	if clamp == nil {
		clamp = ClampVector
	}

	parts := make([]Stats, g.Pool.Workers())
	g.Pool.Chunks(len(ps), func(worker, start, end int) {
		parts[worker] = g.accelerate(ps[start:end], target, sign, dt, clamp)
	})
	for _, part := range parts {
		st.add(part)
	}
	return st
}

func (g *Gravity) accelerate(ps dynamo.Particles, target dynamo.Vec, sign, dt float64, clamp Clamp) Stats {
	var st Stats
	for i := range ps {
		p := &ps[i]
		diff := r2.Sub(target, p.Pos)
		dist := r2.Norm(diff)
		if dist < g.DeadZone || dist == 0 {
			st.Inside++
			continue
		}

		mag := g.Force * dt * sign / (dist / 2)
		k := mag / dist
		if math.IsInf(k, 0) {
			// Past float range the pull only fixes a direction; the clamp sets the length.
			diff = dynamo.Vec{X: diff.X / dist, Y: diff.Y / dist}
			k = math.Copysign(math.MaxFloat64, k)
		}
		v := r2.Add(p.Vel, r2.Scale(k, diff))

		limited := clamp(v, g.SpeedLimit)
		if limited != v {
			st.Clamped++
		}
		p.Vel = limited
		st.Pulled++
	}
	return st
}

// Advance moves every particle by its velocity over dt.
func (g *Gravity) Advance(ps dynamo.Particles, dt float64) {
	g.Pool.Chunks(len(ps), func(_, start, end int) {
		for i := start; i < end; i++ {
			ps[i].Pos = r2.Add(ps[i].Pos, r2.Scale(dt, ps[i].Vel))
		}
	})
}

// Step runs the velocity pass to completion, then the position pass.
func (g *Gravity) Step(ps dynamo.Particles, point dynamo.Vec, mode dynamo.Mode, dt float64) Stats {
	st := g.Accelerate(ps, point, mode, dt)
	g.Advance(ps, dt)
	return st
}

// ScaledPoint maps a screen-space gravity point into particle space.
func (g *Gravity) ScaledPoint(point dynamo.Vec) dynamo.Vec {
	return r2.Scale(g.Scale, point)
}
