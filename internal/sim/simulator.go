package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

type Simulator struct {
	state     *dynamo.State
	resolver  *control.Resolver
	gravity   *physics.Gravity
	maxDt     float64
	metrics   []Metric
	observers []Observer
	last      physics.Stats
	log       *log.Logger
}

func New(st *dynamo.State, resolver *control.Resolver, gravity *physics.Gravity) *Simulator {
	return &Simulator{
		state:     st,
		resolver:  resolver,
		gravity:   gravity,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log.Default(),
	}
}

// FromConfig builds a simulator for cfg. A zero seed picks one from the clock.
func FromConfig(cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	clamp, ok := physics.ClampByName(cfg.Clamp)
	if !ok {
		return nil, fmt.Errorf("%w: unknown clamp %q", dynamo.ErrInvalidConfig, cfg.Clamp)
	}
	g := &physics.Gravity{
		Force:      cfg.GravityForce,
		SpeedLimit: cfg.SpeedLimit,
		Scale:      cfg.Scale,
		DeadZone:   cfg.DeadZone,
		Clamp:      clamp,
	}
	if cfg.Workers != 1 {
		g.Pool = compute.NewPool(cfg.Workers)
	}

	var r *control.Resolver
	if cfg.Variant == config.VariantClassic {
		r = control.NewClassic(cfg.Center(), cfg.GravityPointSpeed)
	} else {
		r = control.NewModern(cfg.Center(), cfg.GravityPointSpeed)
	}

	s := New(NewState(cfg, rng), r, g)
	s.maxDt = cfg.MaxDt
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) SetLogger(l *log.Logger) { s.log = l }

// SetMaxDt bounds the per-frame timestep. Zero disables the bound.
func (s *Simulator) SetMaxDt(d float64) { s.maxDt = d }

func (s *Simulator) State() *dynamo.State        { return s.state }
func (s *Simulator) Resolver() *control.Resolver { return s.resolver }
func (s *Simulator) Gravity() *physics.Gravity   { return s.gravity }
func (s *Simulator) LastStats() physics.Stats    { return s.last }
func (s *Simulator) Metrics() []Metric           { return s.metrics }

// Frame advances the simulation by one frame of real time dt.
func (s *Simulator) Frame(in control.Input, dt float64) physics.Stats {
	if dt < 0 {
		dt = 0
	}
	if s.maxDt > 0 && dt > s.maxDt {
		dt = s.maxDt
	}

	st := s.state
	s.resolver.Resolve(st, in, dt)
	s.last = s.gravity.Step(st.Particles, st.Gravity, st.Mode, dt)

	st.Frame++
	st.Time += dt

	for _, o := range s.observers {
		o.OnFrame(st, s.last, dt)
	}
	return s.last
}

// Loop drives frames until the driver asks to close or ctx is done. A
// window close returns nil.
func (s *Simulator) Loop(ctx context.Context, d Driver) error {
	s.log.Debug("frame loop started", "dots", len(s.state.Particles), "mode", s.state.Mode)
	for !d.ShouldClose() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", dynamo.ErrCanceled, ctx.Err())
		default:
		}

		s.Frame(d.Input(), d.FrameTime())
		d.Draw(s)
	}
	s.log.Debug("frame loop finished", "frames", s.state.Frame)
	return nil
}

// Run advances the simulation headlessly for cfg.Frames frames of cfg.Dt,
// recording every metric after each frame.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig, script Script) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	names := make([]string, len(s.metrics))
	for i, m := range s.metrics {
		m.Reset()
		names[i] = m.Name()
	}

	result := &Result{
		MetricNames: names,
		Times:       make([]float64, 0, cfg.Frames),
		Series:      make([][]float64, 0, cfg.Frames),
		Metrics:     make(map[string]float64),
	}

	idle := control.NewSnapshot()
	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", dynamo.ErrCanceled, ctx.Err())
		default:
		}

		var in control.Input = idle
		if script != nil {
			if in = script(i); in == nil {
				in = idle
			}
		}
		stats := s.Frame(in, cfg.Dt)

		row := make([]float64, len(s.metrics))
		for j, m := range s.metrics {
			m.Observe(s.state, stats)
			row[j] = m.Value()
		}
		result.Times = append(result.Times, s.state.Time)
		result.Series = append(result.Series, row)
		result.Frames++

		if cfg.Validate && !s.state.Particles.IsValid() {
			return result, &dynamo.FrameError{Frame: s.state.Frame, Time: s.state.Time, Wrapped: dynamo.ErrInvalidState}
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.state.Particles.Clone()
	return result, nil
}
