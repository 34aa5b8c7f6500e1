package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/sim"
)

func vec(x, y, z float64) dynamo.Vector3 { return dynamo.NewVector3(x, y, z) }

func totalMomentum(bodies []*physics.Body) dynamo.Vector3 {
	var p dynamo.Vector3
	for _, b := range bodies {
		if b.Active() {
			p = p.Add(b.Momentum())
		}
	}
	return p
}

var _ = Describe("Simulation", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("two overlapping identical bodies", func() {
		var (
			bodies []*physics.Body
			s      *sim.Simulation
		)

		BeforeEach(func() {
			bodies = []*physics.Body{
				physics.NewBody(1, 1, vec(0, 0, 0), vec(0, 0, 0)),
				physics.NewBody(1, 1, vec(0.5, 0, 0), vec(0, 0, 0)),
			}
			var err error
			s, err = sim.New(bodies, sim.Config{Dt: 1, MaxTime: 10})
			Expect(err).NotTo(HaveOccurred())
		})

		It("merges on the first step and stops", func() {
			Expect(s.ActiveBodies()).To(Equal(2))

			result, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Steps).To(Equal(1))
			Expect(result.Merges).To(Equal(1))
			Expect(s.ActiveBodies()).To(Equal(1))
			Expect(result.Summary.Remaining).To(Equal(1))
			Expect(metrics.Remaining(bodies)).To(Equal(1))
		})

		It("keeps the absorbed body in place with non-positive mass", func() {
			_, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(bodies).To(HaveLen(2))
			Expect(bodies[0].Mass).To(BeNumerically("<=", 0))
			Expect(bodies[1].Mass).To(Equal(2.0))
		})

		It("reports zero pair statistics for the lone survivor", func() {
			result, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Summary.DistanceMean).To(Equal(dynamo.Vector3{}))
			Expect(result.Summary.DistanceStdev).To(Equal(dynamo.Vector3{}))
			Expect(result.Summary.VelocityStdev).To(Equal(dynamo.Vector3{}))
		})
	})

	Context("three distant bodies at rest", func() {
		const (
			mass = 1e10
			dt   = 1.0
		)
		xs := []float64{0, 100, 300}

		It("matches the analytic state after one step", func() {
			bodies := make([]*physics.Body, len(xs))
			for i, x := range xs {
				bodies[i] = physics.NewBody(mass, 1, vec(x, 0, 0), vec(0, 0, 0))
			}
			s, err := sim.New(bodies, sim.Config{Dt: dt, MaxTime: dt})
			Expect(err).NotTo(HaveOccurred())

			result, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Steps).To(Equal(1))

			// a_i = -G Σ_j m (x_j - x_i) / |x_j - x_i|³
			accel := make([]float64, len(xs))
			for i := range xs {
				sum := 0.0
				for j := range xs {
					if i == j {
						continue
					}
					d := xs[j] - xs[i]
					sum += mass * d / math.Abs(d*d*d)
				}
				accel[i] = -physics.G * sum
			}

			pos := make([]float64, len(xs))
			for i := range xs {
				pos[i] = xs[i] + accel[i]*dt*dt
			}
			distMean := ((pos[0] - pos[1]) + (pos[0] - pos[2]) + (pos[1] - pos[2])) / 3
			velMean := (accel[0] + accel[1] + accel[2]) / 3
			velVar := 0.0
			for _, a := range accel {
				velVar += (a - velMean) * (a - velMean)
			}
			velStdev := math.Sqrt(velVar / 3)

			Expect(result.Summary.DistanceMean.X).To(BeNumerically("~", distMean, 1e-9))
			Expect(result.Summary.DistanceMean.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(result.Summary.VelocityStdev.X).To(BeNumerically("~", velStdev, 1e-12))
			Expect(result.Summary.VelocityStdev.Z).To(BeNumerically("~", 0, 1e-12))
			Expect(result.Summary.Remaining).To(Equal(3))
		})
	})

	Context("a massless companion", func() {
		It("never moves the massive body", func() {
			heavy := physics.NewBody(5e12, 1, vec(0, 0, 0), vec(0, 0, 0))
			ghost := physics.NewBody(0, 1, vec(10, 0, 0), vec(0, 0, 0))
			s, err := sim.New([]*physics.Body{heavy, ghost}, sim.Config{Dt: 0.1, MaxTime: 1})
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 10; i++ {
				s.Step()
			}

			Expect(heavy.Position).To(Equal(vec(0, 0, 0)))
			Expect(heavy.Velocity).To(Equal(vec(0, 0, 0)))
			Expect(ghost.Position).NotTo(Equal(vec(10, 0, 0)))
		})
	})

	Context("momentum", func() {
		It("is conserved through merges and gravity", func() {
			bodies := []*physics.Body{
				physics.NewBody(3e9, 2, vec(0, 0, 0), vec(1, 0, 0)),
				physics.NewBody(1e9, 2, vec(3, 0, 0), vec(-2, 1, 0)),
				physics.NewBody(2e9, 1, vec(50, 20, 0), vec(0, -1, 0.5)),
				physics.NewBody(4e9, 1, vec(-40, 10, 5), vec(0.2, 0, 0)),
			}
			before := totalMomentum(bodies)

			s, err := sim.New(bodies, sim.Config{Dt: 0.5, MaxTime: 5})
			Expect(err).NotTo(HaveOccurred())
			result, err := s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Merges).To(BeNumerically(">=", 1))
			after := totalMomentum(bodies)
			Expect(after.Sub(before).Magnitude()).To(BeNumerically("<", 1e-3*before.Magnitude()))
			Expect(result.Diagnostics.TotalMass).To(BeNumerically("~", 1e10, 1))
		})
	})

	Context("volume radius policy", func() {
		It("grows the survivor", func() {
			bodies := []*physics.Body{
				physics.NewBody(2, 3, vec(0, 0, 0), vec(0, 0, 0)),
				physics.NewBody(1, 4, vec(1, 0, 0), vec(0, 0, 0)),
			}
			s, err := sim.New(bodies, sim.Config{Dt: 1, MaxTime: 10, Radius: physics.VolumeRadius})
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies[0].Radius).To(BeNumerically("~", math.Cbrt(27+64), 1e-12))
		})
	})
})
