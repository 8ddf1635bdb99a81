package integrators_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/integrators"
	"github.com/san-kum/advsim/internal/smoothing"
	"github.com/san-kum/advsim/internal/stencil"
)

func cosine(g grid.Grid) grid.Field {
	x := g.Coordinates()
	u := g.NewField()
	for j := range u {
		u[j] = math.Cos(x[j])
	}
	return u
}

func ramp(g grid.Grid) grid.Field {
	x := g.Coordinates()
	u := g.NewField()
	for j := range u {
		u[j] = 1 - x[j]/(2*math.Pi)
	}
	return u
}

func cosineOrRamp(g grid.Grid, periodic bool) grid.Field {
	if periodic {
		return cosine(g)
	}
	return ramp(g)
}

// referenceStep is the stage recurrence written out without scratch reuse.
// A non-nil s smooths every stage residual: zero r0[0], explicit pass,
// zero r1[0], implicit pass.
func referenceStep(g grid.Grid, u grid.Field, dt, l4 float64, alpha []float64, s *smoothing.Smoother) grid.Field {
	u0 := u.Clone()
	cur := u.Clone()
	for _, a := range alpha {
		d2 := stencil.SecondDifference(g, cur, nil)
		d4 := stencil.FourthDifference(g, cur, nil)
		r := g.NewField()
		for i := range r {
			r[i] = (d2[i] + l4*d4[i]) / g.H()
		}
		if s != nil {
			r[0] = 0
			r1 := s.Explicit(r, nil)
			r1[0] = 0
			r = s.Implicit(r1, nil)
		}
		next := g.NewField()
		for i := range next {
			next[i] = u0[i] - a*dt*r[i]
		}
		if !g.Periodic() {
			next[0] = 1
		}
		cur = next
	}
	return cur
}

var _ = Describe("LowStorageRK", func() {
	Describe("NewLowStorageRK", func() {
		It("rejects a non-positive timestep", func() {
			g := grid.MustNew(8, 1, true)
			_, err := integrators.NewLowStorageRK(g, 0, 0)
			Expect(errors.Is(err, grid.ErrNonPositiveTimestep)).To(BeTrue())
		})

		It("rejects an empty stage list", func() {
			g := grid.MustNew(8, 1, true)
			_, err := integrators.NewLowStorageRK(g, 0.1, 0, integrators.WithAlpha(nil))
			Expect(errors.Is(err, grid.ErrParameterBounds)).To(BeTrue())
		})

		It("uses three stages by default", func() {
			g := grid.MustNew(8, 1, true)
			rk, err := integrators.NewLowStorageRK(g, 0.1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(rk.Stages()).To(Equal(3))
			Expect(rk.Smoothed()).To(BeFalse())
		})
	})

	Describe("Step", func() {
		It("leaves a constant periodic field at rest", func() {
			g := grid.MustNew(16, 2*math.Pi, true)
			rk, _ := integrators.NewLowStorageRK(g, 0.5*g.H(), 1.0/32)
			u := g.NewField()
			for i := range u {
				u[i] = 0.25
			}

			res := rk.Step(u)
			Expect(res).To(BeZero())
			for _, v := range u {
				Expect(v).To(Equal(0.25))
			}
		})

		It("restarts every stage from the start-of-step field", func() {
			for _, periodic := range []bool{true, false} {
				g := grid.MustNew(24, 2*math.Pi, periodic)
				dt := 0.8 * g.H()
				rk, _ := integrators.NewLowStorageRK(g, dt, 1.0/32)
				u := cosine(g)
				want := referenceStep(g, u, dt, 1.0/32, integrators.DefaultAlpha, nil)

				rk.Step(u)
				for i := range u {
					Expect(u[i]).To(BeNumerically("~", want[i], 1e-13))
				}
			}
		})

		It("smooths every stage residual before the update", func() {
			for _, periodic := range []bool{true, false} {
				for _, mdt := range []float64{2, 10} {
					g := grid.MustNew(32, 2*math.Pi, periodic)
					dt := mdt * g.H()
					s, err := smoothing.New(g, mdt)
					Expect(err).NotTo(HaveOccurred())
					ref, err := smoothing.New(g, mdt)
					Expect(err).NotTo(HaveOccurred())
					rk, err := integrators.NewLowStorageRK(g, dt, 1.0/32, integrators.WithSmoother(s))
					Expect(err).NotTo(HaveOccurred())

					u := cosineOrRamp(g, periodic)
					want := referenceStep(g, u, dt, 1.0/32, integrators.DefaultAlpha, ref)
					plain := referenceStep(g, u, dt, 1.0/32, integrators.DefaultAlpha, nil)

					rk.Step(u)
					Expect(u.L1Distance(plain)).To(BeNumerically(">", 1e-6),
						"periodic=%v mdt=%g", periodic, mdt)
					for i := range u {
						Expect(u[i]).To(BeNumerically("~", want[i], 1e-12),
							"periodic=%v mdt=%g i=%d", periodic, mdt, i)
					}
				}
			}
		})

		It("imposes the inflow value on open grids after every step", func() {
			g := grid.MustNew(32, 2*math.Pi, false)
			rk, _ := integrators.NewLowStorageRK(g, g.H(), 1.0/32, integrators.WithInflow(1))
			u := ramp(g)
			u[0] = 0.3

			rk.Step(u)
			Expect(u[0]).To(Equal(1.0))
		})

		It("never overwrites point 0 on periodic grids", func() {
			g := grid.MustNew(32, 2*math.Pi, true)
			rk, _ := integrators.NewLowStorageRK(g, g.H(), 1.0/32, integrators.WithInflow(42))
			u := cosine(g)

			rk.Step(u)
			Expect(u[0]).NotTo(Equal(42.0))
			Expect(u[0]).To(BeNumerically("~", 1, 0.1))
		})

		It("returns the scaled L1 change of the step", func() {
			g := grid.MustNew(32, 2*math.Pi, true)
			dt := g.H()
			rk, _ := integrators.NewLowStorageRK(g, dt, 1.0/32)
			u := cosine(g)
			before := u.Clone()

			res := rk.Step(u)
			Expect(res).To(BeNumerically("~", u.L1Distance(before)/dt, 1e-12))
			Expect(res).To(BeNumerically(">", 0))
		})

		It("advects a cosine to the right at unit speed", func() {
			g := grid.MustNew(128, 2*math.Pi, true)
			dt := 0.5 * g.H()
			rk, _ := integrators.NewLowStorageRK(g, dt, 1.0/32)
			u := cosine(g)

			steps := 40
			for i := 0; i < steps; i++ {
				rk.Step(u)
			}
			t := float64(steps) * dt
			x := g.Coordinates()
			for j := range u {
				Expect(u[j]).To(BeNumerically("~", math.Cos(x[j]-t), 0.02))
			}
		})

		It("stays bounded with smoothing at the standalone script settings", func() {
			g := grid.MustNew(64, 2*math.Pi, true)
			s, _ := smoothing.New(g, 2)
			rk, _ := integrators.NewLowStorageRK(g, 1.5*g.H(), 1.0/32, integrators.WithSmoother(s))
			Expect(rk.Smoothed()).To(BeTrue())
			u := cosine(g)

			for i := 0; i < 80; i++ {
				res := rk.Step(u)
				Expect(math.IsNaN(res)).To(BeFalse())
			}
			Expect(u.IsFinite()).To(BeTrue())
			Expect(u.MaxAbs()).To(BeNumerically("<", 1.5))
		})

		It("panics on a field of the wrong length", func() {
			g := grid.MustNew(8, 1, true)
			rk, _ := integrators.NewLowStorageRK(g, 0.1, 0)
			Expect(func() { rk.Step(make(grid.Field, 5)) }).To(Panic())
		})
	})
})
