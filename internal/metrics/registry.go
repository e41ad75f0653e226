package metrics

import "github.com/san-kum/gravsim/internal/sim"

// Default returns the metrics recorded by headless runs.
func Default(scale float64) []sim.Metric {
	return []sim.Metric{
		NewMeanSpeed(),
		NewMaxSpeed(),
		NewMeanDistance(scale),
		NewClampRatio(),
		NewDeadZoneRatio(),
	}
}
