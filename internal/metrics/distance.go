package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// MeanDistance is the average distance, in particle units, from each
// particle to the scaled gravity point.
type MeanDistance struct {
	scale float64
	value float64
}

func NewMeanDistance(scale float64) *MeanDistance {
	return &MeanDistance{scale: scale}
}

func (m *MeanDistance) Name() string {
	return "mean_distance"
}

func (m *MeanDistance) Observe(st *dynamo.State, stats physics.Stats) {
	if len(st.Particles) == 0 {
		m.value = 0
		return
	}
	target := r2.Scale(m.scale, st.Gravity)
	sum := 0.0
	for _, p := range st.Particles {
		sum += dynamo.Distance(target, p.Pos)
	}
	m.value = sum / float64(len(st.Particles))
}

func (m *MeanDistance) Value() float64 { return m.value }
func (m *MeanDistance) Reset()         { m.value = 0 }
