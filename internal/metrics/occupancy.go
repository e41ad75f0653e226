package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Occupancy is the fraction of particles that fell into one bucket of the
// velocity pass in the latest frame.
type Occupancy struct {
	name  string
	count func(physics.Stats) int
	value float64
}

// NewClampRatio tracks the fraction of particles held at the speed limit.
func NewClampRatio() *Occupancy {
	return &Occupancy{
		name:  "clamp_ratio",
		count: func(s physics.Stats) int { return s.Clamped },
	}
}

// NewDeadZoneRatio tracks the fraction of particles inside the dead zone.
func NewDeadZoneRatio() *Occupancy {
	return &Occupancy{
		name:  "dead_zone_ratio",
		count: func(s physics.Stats) int { return s.Inside },
	}
}

func (o *Occupancy) Name() string {
	return o.name
}

func (o *Occupancy) Observe(st *dynamo.State, stats physics.Stats) {
	if len(st.Particles) == 0 {
		o.value = 0
		return
	}
	o.value = float64(o.count(stats)) / float64(len(st.Particles))
}

func (o *Occupancy) Value() float64 { return o.value }
func (o *Occupancy) Reset()         { o.value = 0 }
