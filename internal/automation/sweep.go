package automation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

// Sweepable lists the configuration values a sweep can vary.
var Sweepable = map[string]func(*config.Config, float64){
	"gravity_force":       func(c *config.Config, v float64) { c.GravityForce = v },
	"speed_limit":         func(c *config.Config, v float64) { c.SpeedLimit = v },
	"dead_zone":           func(c *config.Config, v float64) { c.DeadZone = v },
	"gravity_point_speed": func(c *config.Config, v float64) { c.GravityPointSpeed = v },
	"dots":                func(c *config.Config, v float64) { c.Dots = int(v) },
}

// Sweep runs the same headless simulation for evenly spaced values of Param.
// A non-nil Scenario is compiled afresh for every step against that step's
// screen center.
type Sweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	Steps    int
	Frames   int
	Dt       float64
	Scenario *Scenario
	Logger   *log.Logger
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func (s *Sweep) Run(ctx context.Context) ([]SweepResult, error) {
	set, ok := Sweepable[s.Param]
	if !ok {
		return nil, fmt.Errorf("parameter %q cannot be swept", s.Param)
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", s.Steps)
	}

	step := 0.0
	if s.Steps > 1 {
		step = (s.Max - s.Min) / float64(s.Steps-1)
	}

	results := make([]SweepResult, 0, s.Steps)
	for i := 0; i < s.Steps; i++ {
		val := s.Min + float64(i)*step

		cfg := s.Base.Clone()
		set(cfg, val)

		simulator, err := sim.FromConfig(cfg)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", s.Param, val, err)
		}
		if s.Logger != nil {
			simulator.SetLogger(s.Logger)
		}
		for _, m := range metrics.Default(cfg.Scale) {
			simulator.AddMetric(m)
		}

		var script sim.Script
		if s.Scenario != nil {
			if script, err = s.Scenario.Script(cfg.Center()); err != nil {
				return results, fmt.Errorf("scenario %s: %w", s.Scenario.Name, err)
			}
		}

		res, err := simulator.Run(ctx, sim.RunConfig{Frames: s.Frames, Dt: s.Dt}, script)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", s.Param, val, err)
		}

		results = append(results, SweepResult{Value: val, Metrics: res.Metrics})
		if s.Logger != nil {
			s.Logger.Debug("sweep step", "step", i+1, "of", s.Steps, s.Param, val)
		}
	}
	return results, nil
}
