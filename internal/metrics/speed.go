package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// MeanSpeed is the average particle speed of the latest frame.
type MeanSpeed struct {
	value float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{}
}

func (m *MeanSpeed) Name() string {
	return "mean_speed"
}

func (m *MeanSpeed) Observe(st *dynamo.State, stats physics.Stats) {
	if len(st.Particles) == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for _, p := range st.Particles {
		sum += p.Speed()
	}
	m.value = sum / float64(len(st.Particles))
}

func (m *MeanSpeed) Value() float64 { return m.value }
func (m *MeanSpeed) Reset()         { m.value = 0 }

// MaxSpeed is the highest speed seen over the run. It never exceeds the
// integrator's speed limit when vector clamping is on.
type MaxSpeed struct {
	value float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{}
}

func (m *MaxSpeed) Name() string {
	return "max_speed"
}

func (m *MaxSpeed) Observe(st *dynamo.State, stats physics.Stats) {
	for _, p := range st.Particles {
		if s := p.Speed(); s > m.value {
			m.value = s
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.value }
func (m *MaxSpeed) Reset()         { m.value = 0 }
