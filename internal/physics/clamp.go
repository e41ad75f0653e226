package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Clamp limits a velocity to a maximum speed.
type Clamp func(v dynamo.Vec, limit float64) dynamo.Vec

// ClampVector scales v down so its length does not exceed limit. Direction is preserved.
func ClampVector(v dynamo.Vec, limit float64) dynamo.Vec {
	n := r2.Norm(v)
	if n <= limit || n == 0 {
		return v
	}
	if math.IsInf(n, 0) {
		v = direction(v)
		n = r2.Norm(v)
	}
	return r2.Scale(limit/n, v)
}

// direction rescales a vector whose length overflows. Infinite components
// dominate and finite ones vanish next to them.
func direction(v dynamo.Vec) dynamo.Vec {
	if math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
		d := dynamo.Vec{}
		if math.IsInf(v.X, 0) {
			d.X = math.Copysign(1, v.X)
		}
		if math.IsInf(v.Y, 0) {
			d.Y = math.Copysign(1, v.Y)
		}
		return d
	}
	m := math.Max(math.Abs(v.X), math.Abs(v.Y))
	return dynamo.Vec{X: v.X / m, Y: v.Y / m}
}

// ClampAxis limits each component independently. This is the legacy limiter:
// it bends the direction of v and lets the length reach limit*sqrt(2).
func ClampAxis(v dynamo.Vec, limit float64) dynamo.Vec {
	return dynamo.Vec{
		X: math.Max(-limit, math.Min(limit, v.X)),
		Y: math.Max(-limit, math.Min(limit, v.Y)),
	}
}

// ClampByName returns the limiter registered under name ("vector" or "axis").
func ClampByName(name string) (Clamp, bool) {
	switch name {
	case "vector", "":
		return ClampVector, true
	case "axis":
		return ClampAxis, true
	}
	return nil, false
}
