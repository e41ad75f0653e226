package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

type countMetric struct {
	frames int
}

func (c *countMetric) Name() string                                  { return "count" }
func (c *countMetric) Observe(st *dynamo.State, stats physics.Stats) { c.frames++ }
func (c *countMetric) Value() float64                                { return float64(c.frames) }
func (c *countMetric) Reset()                                        { c.frames = 0 }

type recordingObserver struct {
	dts []float64
}

func (r *recordingObserver) OnFrame(st *dynamo.State, stats physics.Stats, dt float64) {
	r.dts = append(r.dts, dt)
}

type fakeDriver struct {
	closeAfter int
	drawn      int
	dt         float64
	input      *control.Snapshot
}

func (f *fakeDriver) ShouldClose() bool     { return f.closeAfter >= 0 && f.drawn >= f.closeAfter }
func (f *fakeDriver) FrameTime() float64    { return f.dt }
func (f *fakeDriver) Input() control.Input  { return f.input }
func (f *fakeDriver) Draw(s *sim.Simulator) { f.drawn++ }

var _ = Describe("Simulator", func() {
	var (
		cfg *config.Config
		s   *sim.Simulator
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Seed = 42
		cfg.Dots = 25

		var err error
		s, err = sim.FromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("FromConfig", func() {
		It("starts with the gravity point at the screen center", func() {
			st := s.State()
			Expect(st.Gravity).To(Equal(dynamo.Vec{X: 540, Y: 360}))
			Expect(st.Particles).To(HaveLen(25))
			Expect(st.Mode).To(Equal(dynamo.ModeAttract))
			Expect(st.Flags.ShowGeneral).To(BeTrue())
			Expect(st.Flags.ShowGravity).To(BeTrue())
		})

		It("is deterministic for a fixed seed", func() {
			other, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.State().Particles).To(Equal(s.State().Particles))
		})

		It("selects the resolver by variant", func() {
			Expect(s.Resolver().Cycle).To(HaveLen(3))

			cfg.Variant = config.VariantClassic
			classic, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(classic.Resolver().Cycle).To(HaveLen(2))
			Expect(classic.Resolver().Movement).To(Equal(control.MoveButtons))
		})

		It("attaches a worker pool unless one worker is configured", func() {
			Expect(s.Gravity().Pool).To(BeNil())

			cfg.Workers = 3
			pooled, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(pooled.Gravity().Pool.Workers()).To(Equal(3))
		})

		It("rejects invalid configuration", func() {
			cfg.SpeedLimit = -1
			_, err := sim.FromConfig(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Describe("Frame", func() {
		It("resolves input before integrating", func() {
			st := s.State()
			st.Particles = dynamo.Particles{{Pos: dynamo.Vec{X: 20000, Y: 0}}}

			in := control.NewSnapshot().Release(control.KeyP)
			in.Mouse = dynamo.Vec{X: 0, Y: 0}
			s.Frame(in, 1.0/60)

			Expect(st.Gravity).To(Equal(in.Mouse))
			Expect(st.Particles[0].Vel.X).To(BeNumerically("<", 0))
			Expect(st.Particles[0].Vel.Y).To(BeZero())
		})

		It("advances frame count and time", func() {
			s.Frame(control.NewSnapshot(), 0.25)
			s.Frame(control.NewSnapshot(), 0.25)
			Expect(s.State().Frame).To(Equal(2))
			Expect(s.State().Time).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("leaves dt unbounded by default", func() {
			s.Frame(control.NewSnapshot(), 3)
			Expect(s.State().Time).To(Equal(3.0))
		})

		It("bounds dt when a maximum is set", func() {
			obs := &recordingObserver{}
			s.AddObserver(obs)
			s.SetMaxDt(0.05)

			s.Frame(control.NewSnapshot(), 1.0)
			s.Frame(control.NewSnapshot(), 0.01)

			Expect(obs.dts).To(Equal([]float64{0.05, 0.01}))
		})

		It("treats a negative dt as zero", func() {
			before := s.State().Particles.Clone()
			s.Frame(control.NewSnapshot(), -1)
			Expect(s.State().Time).To(BeZero())
			Expect(s.State().Particles).To(Equal(before))
		})

		It("keeps every speed within the limit over many frames", func() {
			cfg.Dots = 200
			cfg.GravityForce = 1e10
			big, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 200; i++ {
				big.Frame(control.NewSnapshot(), 0.1)
				for _, p := range big.State().Particles {
					Expect(p.Speed()).To(BeNumerically("<=", cfg.SpeedLimit*(1+1e-9)))
				}
			}
		})
	})

	Describe("Loop", func() {
		It("runs until the driver closes", func() {
			d := &fakeDriver{closeAfter: 5, dt: 1.0 / 60, input: control.NewSnapshot()}
			Expect(s.Loop(context.Background(), d)).To(Succeed())
			Expect(d.drawn).To(Equal(5))
			Expect(s.State().Frame).To(Equal(5))
		})

		It("stops at the frame boundary when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			d := &fakeDriver{closeAfter: -1, dt: 1.0 / 60, input: control.NewSnapshot()}

			err := s.Loop(ctx, d)
			Expect(err).To(MatchError(dynamo.ErrCanceled))
			Expect(d.drawn).To(BeZero())
		})
	})

	Describe("Run", func() {
		It("records one row per frame", func() {
			m := &countMetric{}
			s.AddMetric(m)

			res, err := s.Run(context.Background(), sim.RunConfig{Frames: 10, Dt: 0.02}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(Equal(10))
			Expect(res.MetricNames).To(Equal([]string{"count"}))
			Expect(res.Series).To(HaveLen(10))
			Expect(res.Series[9][0]).To(Equal(10.0))
			Expect(res.Times[9]).To(BeNumerically("~", 0.2, 1e-12))
			Expect(res.Metrics).To(HaveKeyWithValue("count", 10.0))
			Expect(res.Final).To(HaveLen(25))
		})

		It("feeds scripted input", func() {
			script := func(frame int) control.Input {
				in := control.NewSnapshot()
				if frame == 0 {
					in.Release(control.KeyR)
				}
				return in
			}
			_, err := s.Run(context.Background(), sim.RunConfig{Frames: 3, Dt: 0.01}, script)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.State().Mode).To(Equal(dynamo.ModeRepel))
		})

		It("treats a script with nothing to say as idle input", func() {
			script := func(frame int) control.Input {
				if frame == 1 {
					return control.NewSnapshot().Release(control.KeyR)
				}
				return nil
			}
			res, err := s.Run(context.Background(), sim.RunConfig{Frames: 4, Dt: 0.01}, script)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Frames).To(Equal(4))
			Expect(s.State().Mode).To(Equal(dynamo.ModeRepel))
		})

		It("rejects a non-positive dt", func() {
			_, err := s.Run(context.Background(), sim.RunConfig{Frames: 3}, nil)
			Expect(err).To(HaveOccurred())
		})

		It("reports cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, sim.RunConfig{Frames: 3, Dt: 0.01}, nil)
			Expect(err).To(MatchError(dynamo.ErrCanceled))
			Expect(res.Frames).To(BeZero())
		})

		It("stops on NaN when validation is enabled", func() {
			s.State().Particles[0].Pos.X = math.NaN()
			res, err := s.Run(context.Background(), sim.RunConfig{Frames: 5, Dt: 0.01, Validate: true}, nil)

			var fe *dynamo.FrameError
			Expect(err).To(BeAssignableToTypeOf(fe))
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(res.Frames).To(Equal(1))
		})

		It("is inert with zero particles", func() {
			cfg.Dots = 0
			empty, err := sim.FromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())

			res, err := empty.Run(context.Background(), sim.RunConfig{Frames: 10, Dt: 0.5, Validate: true}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Final).To(BeEmpty())
		})
	})
})
