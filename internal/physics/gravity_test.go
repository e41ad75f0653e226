package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Gravity", func() {
	var (
		g     *physics.Gravity
		point dynamo.Vec
	)

	BeforeEach(func() {
		g = physics.NewGravity()
		point = dynamo.Vec{X: 540, Y: 360}
	})

	distance := func(p dynamo.Particle) float64 {
		return dynamo.Distance(g.ScaledPoint(point), p.Pos)
	}

	Describe("speed limit", func() {
		It("never lets a velocity exceed the limit under extreme force and dt", func() {
			g.Force = 1e15
			ps := dynamo.Particles{
				{Pos: dynamo.Vec{X: 0, Y: 0}},
				{Pos: dynamo.Vec{X: 108000, Y: 0}},
				{Pos: dynamo.Vec{X: 12345, Y: 70000}, Vel: dynamo.Vec{X: 7000, Y: -2000}},
				{Pos: dynamo.Vec{X: 54000, Y: 36200}},
			}

			for frame := 0; frame < 50; frame++ {
				g.Accelerate(ps, point, dynamo.ModeAttract, 10)
				for _, p := range ps {
					Expect(p.Speed()).To(BeNumerically("<=", g.SpeedLimit*(1+1e-9)))
				}
				g.Advance(ps, 10)
			}
		})

		It("holds in repel mode as well", func() {
			g.Force = 1e12
			ps := dynamo.Particles{{Pos: dynamo.Vec{X: 50000, Y: 36000}}}
			g.Step(ps, point, dynamo.ModeRepel, 2.5)
			Expect(ps[0].Speed()).To(BeNumerically("~", g.SpeedLimit, 1e-6))
		})

		It("stays finite when the pull overflows float range", func() {
			g.Force = 1e308
			ps := dynamo.Particles{
				{Pos: dynamo.Vec{X: 54200, Y: 36000}},
				{Pos: dynamo.Vec{X: 54000, Y: 36300}},
				{Pos: dynamo.Vec{X: 53800, Y: 35800}},
			}

			for frame := 0; frame < 5; frame++ {
				g.Step(ps, point, dynamo.ModeAttract, 10)
				Expect(ps.IsValid()).To(BeTrue())
				for _, p := range ps {
					Expect(p.Speed()).To(BeNumerically("<=", g.SpeedLimit*(1+1e-9)))
				}
			}
		})

		It("reports clamped particles", func() {
			g.Force = 1e12
			ps := dynamo.Particles{{Pos: dynamo.Vec{X: 0, Y: 0}}}
			st := g.Accelerate(ps, point, dynamo.ModeAttract, 1)
			Expect(st.Clamped).To(Equal(1))
			Expect(st.Pulled).To(Equal(1))
		})
	})

	Describe("dead zone", func() {
		It("skips a particle sitting exactly on the point when the zone is empty", func() {
			g.DeadZone = 0
			ps := dynamo.Particles{{Pos: g.ScaledPoint(point)}}

			st := g.Step(ps, point, dynamo.ModeAttract, 1.0/60)
			Expect(st.Inside).To(Equal(1))
			Expect(ps.IsValid()).To(BeTrue())
			Expect(ps[0].Vel).To(Equal(dynamo.Vec{}))
		})

		It("leaves velocity unchanged for particles inside it", func() {
			target := g.ScaledPoint(point)
			vel := dynamo.Vec{X: 12, Y: -34}
			ps := dynamo.Particles{
				{Pos: r2.Add(target, dynamo.Vec{X: 50, Y: 0}), Vel: vel},
				{Pos: r2.Add(target, dynamo.Vec{X: 0, Y: -98.9}), Vel: vel},
				{Pos: target, Vel: vel},
			}

			st := g.Accelerate(ps, point, dynamo.ModeAttract, 1.0/60)
			Expect(st.Inside).To(Equal(3))
			Expect(st.Pulled).To(BeZero())
			for _, p := range ps {
				Expect(p.Vel).To(Equal(vel))
			}
		})

		It("applies force at exactly the dead-zone radius", func() {
			target := g.ScaledPoint(point)
			ps := dynamo.Particles{{Pos: r2.Add(target, dynamo.Vec{X: g.DeadZone, Y: 0})}}
			st := g.Accelerate(ps, point, dynamo.ModeAttract, 1.0/60)
			Expect(st.Pulled).To(Equal(1))
			Expect(ps[0].Vel.X).To(BeNumerically("<", 0))
		})
	})

	Describe("disabled mode", func() {
		It("skips the velocity pass but still advances positions", func() {
			ps := dynamo.Particles{{Pos: dynamo.Vec{X: 100, Y: 100}, Vel: dynamo.Vec{X: 60, Y: 0}}}
			st := g.Step(ps, point, dynamo.ModeDisabled, 0.5)
			Expect(st.Disabled).To(BeTrue())
			Expect(ps[0].Vel).To(Equal(dynamo.Vec{X: 60, Y: 0}))
			Expect(ps[0].Pos).To(Equal(dynamo.Vec{X: 130, Y: 100}))
		})
	})

	Describe("force magnitude", func() {
		It("follows force*dt/(distance/2) along the unit direction", func() {
			target := g.ScaledPoint(point)
			ps := dynamo.Particles{{Pos: r2.Add(target, dynamo.Vec{X: -10000, Y: 0})}}
			dt := 1.0 / 60

			g.Accelerate(ps, point, dynamo.ModeAttract, dt)

			want := g.Force * dt / (10000.0 / 2)
			Expect(ps[0].Vel.X).To(BeNumerically("~", want, 1e-9))
			Expect(ps[0].Vel.Y).To(BeNumerically("~", 0, 1e-12))
		})

		It("accumulates onto the existing velocity", func() {
			target := g.ScaledPoint(point)
			ps := dynamo.Particles{{Pos: r2.Add(target, dynamo.Vec{X: 0, Y: 20000}), Vel: dynamo.Vec{X: 100, Y: 0}}}
			g.Accelerate(ps, point, dynamo.ModeAttract, 0.01)
			Expect(ps[0].Vel.X).To(BeNumerically("~", 100, 1e-9))
			Expect(ps[0].Vel.Y).To(BeNumerically("<", 0))
		})
	})

	Describe("convergence", func() {
		const dt = 0.001

		It("strictly decreases distance in attract mode until the dead zone", func() {
			target := g.ScaledPoint(point)
			ps := dynamo.Particles{{Pos: r2.Add(target, dynamo.Vec{X: 6000, Y: -8000})}}
			prev := distance(ps[0])
			entered := false

			for frame := 0; frame < 200000; frame++ {
				g.Step(ps, point, dynamo.ModeAttract, dt)
				d := distance(ps[0])
				if d < g.DeadZone {
					entered = true
					break
				}
				Expect(d).To(BeNumerically("<", prev), "frame %d", frame)
				prev = d
			}
			Expect(entered).To(BeTrue())
		})

		It("strictly increases distance in repel mode and then moves at the speed limit", func() {
			target := g.ScaledPoint(point)
			ps := dynamo.Particles{{Pos: r2.Add(target, dynamo.Vec{X: 300, Y: 400})}}
			prev := distance(ps[0])
			clampedAt := -1

			for frame := 0; frame < 200000 && clampedAt < 0; frame++ {
				st := g.Step(ps, point, dynamo.ModeRepel, dt)
				d := distance(ps[0])
				Expect(d).To(BeNumerically(">", prev), "frame %d", frame)
				prev = d
				if st.Clamped > 0 {
					clampedAt = frame
				}
			}
			Expect(clampedAt).To(BeNumerically(">=", 0))

			for i := 0; i < 100; i++ {
				before := ps[0].Pos
				g.Step(ps, point, dynamo.ModeRepel, dt)
				step := dynamo.Distance(before, ps[0].Pos)
				Expect(step).To(BeNumerically("~", g.SpeedLimit*dt, 1e-6))
				Expect(distance(ps[0])).To(BeNumerically(">", prev))
				prev = distance(ps[0])
			}
		})
	})

	Describe("pass ordering", func() {
		It("moves each particle by its already-updated velocity", func() {
			ps := dynamo.Particles{
				{Pos: dynamo.Vec{X: 1000, Y: 2000}, Vel: dynamo.Vec{X: 5, Y: 5}},
				{Pos: dynamo.Vec{X: 90000, Y: 10000}},
				{Pos: dynamo.Vec{X: 40000, Y: 70000}, Vel: dynamo.Vec{X: -300, Y: 20}},
			}
			before := ps.Clone()
			dt := 1.0 / 30

			g.Step(ps, point, dynamo.ModeAttract, dt)

			for i := range ps {
				want := r2.Add(before[i].Pos, r2.Scale(dt, ps[i].Vel))
				Expect(ps[i].Pos).To(Equal(want))
			}
		})
	})

	Describe("order independence", func() {
		It("produces the same result regardless of particle order", func() {
			a := dynamo.Particles{
				{Pos: dynamo.Vec{X: 1000, Y: 2000}},
				{Pos: dynamo.Vec{X: 80000, Y: 60000}, Vel: dynamo.Vec{X: 10}},
			}
			b := dynamo.Particles{a[1], a[0]}

			g.Step(a, point, dynamo.ModeAttract, 0.02)
			g.Step(b, point, dynamo.ModeAttract, 0.02)

			Expect(a[0]).To(Equal(b[1]))
			Expect(a[1]).To(Equal(b[0]))
		})
	})
})

var _ = Describe("Clamp", func() {
	It("preserves direction when clamping by vector length", func() {
		v := physics.ClampVector(dynamo.Vec{X: 10000, Y: 1000}, 5000)
		Expect(r2.Norm(v)).To(BeNumerically("~", 5000, 1e-9))
		Expect(v.Y / v.X).To(BeNumerically("~", 0.1, 1e-12))
	})

	It("leaves short vectors alone", func() {
		v := dynamo.Vec{X: 3, Y: 4}
		Expect(physics.ClampVector(v, 5000)).To(Equal(v))
		Expect(physics.ClampAxis(v, 5000)).To(Equal(v))
	})

	It("keeps the direction of vectors whose length overflows", func() {
		v := physics.ClampVector(dynamo.Vec{X: math.Inf(-1), Y: 3}, 5000)
		Expect(v).To(Equal(dynamo.Vec{X: -5000, Y: 0}))

		v = physics.ClampVector(dynamo.Vec{X: math.MaxFloat64, Y: math.MaxFloat64}, 5000)
		Expect(dynamo.Finite(v)).To(BeTrue())
		Expect(r2.Norm(v)).To(BeNumerically("~", 5000, 1e-9))
		Expect(v.X).To(Equal(v.Y))
	})

	// The per-axis limiter is the legacy behavior; it is kept selectable but
	// distorts direction and lets speed exceed the limit.
	It("distorts direction when clamping per axis", func() {
		v := physics.ClampAxis(dynamo.Vec{X: 10000, Y: 1000}, 5000)
		Expect(v).To(Equal(dynamo.Vec{X: 5000, Y: 1000}))
		Expect(v.Y / v.X).NotTo(BeNumerically("~", 0.1, 1e-3))

		diag := physics.ClampAxis(dynamo.Vec{X: 9000, Y: -9000}, 5000)
		Expect(r2.Norm(diag)).To(BeNumerically("~", 5000*math.Sqrt2, 1e-9))
	})

	It("resolves limiters by name", func() {
		_, ok := physics.ClampByName("vector")
		Expect(ok).To(BeTrue())
		_, ok = physics.ClampByName("axis")
		Expect(ok).To(BeTrue())
		_, ok = physics.ClampByName("diagonal")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Parallel stepping", func() {
	It("matches the serial result particle for particle", func() {
		n := compute.MinParallel*2 + 13
		serial := make(dynamo.Particles, n)
		for i := range serial {
			serial[i].Pos = dynamo.Vec{X: float64(i%1080) * 100, Y: float64((i*7)%720) * 100}
		}
		parallel := serial.Clone()
		point := dynamo.Vec{X: 540, Y: 360}

		g := physics.NewGravity()
		pg := physics.NewGravity()
		pg.Pool = compute.NewPool(4)

		for frame := 0; frame < 5; frame++ {
			want := g.Step(serial, point, dynamo.ModeAttract, 1.0/60)
			got := pg.Step(parallel, point, dynamo.ModeAttract, 1.0/60)
			Expect(got).To(Equal(want))
		}
		Expect(parallel).To(Equal(serial))
	})
})
