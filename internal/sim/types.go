package sim

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(st *dynamo.State, stats physics.Stats)
	Value() float64
	Reset()
}

// Observer is notified after every frame.
type Observer interface {
	OnFrame(st *dynamo.State, stats physics.Stats, dt float64)
}

// Driver is the windowing collaborator of an interactive loop.
type Driver interface {
	ShouldClose() bool
	// FrameTime returns the seconds elapsed since the previous frame.
	FrameTime() float64
	Input() control.Input
	Draw(s *Simulator)
}

// Script supplies the input for a frame of a headless run.
type Script func(frame int) control.Input

type RunConfig struct {
	Frames   int
	Dt       float64
	Validate bool
}

func (c RunConfig) validate() error {
	if c.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", c.Frames)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	return nil
}

type Result struct {
	MetricNames []string
	Times       []float64
	Series      [][]float64 // one row per frame, aligned with MetricNames
	Metrics     map[string]float64
	Frames      int
	Final       dynamo.Particles
}
