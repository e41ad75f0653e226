package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D float vector.
type Vec = r2.Vec

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Finite reports whether both components of v are finite.
func Finite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
