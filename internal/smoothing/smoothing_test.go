package smoothing_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/smoothing"
)

func sine(g grid.Grid, k float64) grid.Field {
	x := g.Coordinates()
	u := g.NewField()
	for j := range u {
		u[j] = math.Sin(k * x[j])
	}
	return u
}

var _ = Describe("Coefficients", func() {
	It("vanishes for unit growth", func() {
		beta, gamma := smoothing.Coefficients(1)
		Expect(beta).To(BeZero())
		Expect(gamma).To(BeZero())
	})

	It("matches the closed form for mdt=10", func() {
		beta, gamma := smoothing.Coefficients(10)
		Expect(beta).To(BeNumerically("~", 24.75, 1e-12))
		Expect(gamma).To(BeNumerically("~", 2.25, 1e-12))
	})
})

var _ = Describe("Smoother", func() {
	var (
		open     grid.Grid
		periodic grid.Grid
	)

	BeforeEach(func() {
		open = grid.MustNew(8, 1, false)
		periodic = grid.MustNew(8, 1, true)
	})

	Describe("New", func() {
		It("rejects growth factors below one", func() {
			_, err := smoothing.New(open, 0.5)
			Expect(errors.Is(err, grid.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects a zero sweep count", func() {
			_, err := smoothing.New(open, 2, smoothing.WithSweeps(0))
			Expect(err).To(HaveOccurred())
		})

		It("defaults to 100 sweeps and the outflow policy", func() {
			s, err := smoothing.New(open, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Sweeps()).To(Equal(smoothing.DefaultSweeps))
			Expect(s.Sweeps()).To(Equal(100))
			Expect(s.Policy()).To(Equal(smoothing.OutflowOnly))
		})
	})

	Describe("Explicit", func() {
		It("applies the three-point correction in the interior", func() {
			s, _ := smoothing.New(open, 3)
			g := s.Gamma()
			r0 := grid.Field{0, 0, 0, 1, 0, 0, 0, 0}

			r1 := s.Explicit(r0, nil)
			Expect(r1[2]).To(BeNumerically("~", g, 1e-12))
			Expect(r1[3]).To(BeNumerically("~", 1-2*g, 1e-12))
			Expect(r1[4]).To(BeNumerically("~", g, 1e-12))
			Expect(r1[0]).To(BeZero())
		})

		It("reads only the unmodified input when writing in place", func() {
			s, _ := smoothing.New(periodic, 3)
			r0 := grid.Field{1, 5, -2, 4, 0, 3, 7, -1}
			want := s.Explicit(r0.Clone(), nil)

			got := s.Explicit(r0, r0)
			Expect(got).To(HaveLen(8))
			for i := range want {
				Expect(got[i]).To(BeNumerically("~", want[i], 1e-12))
			}
		})

		It("wraps both ends on a periodic grid", func() {
			s, _ := smoothing.New(periodic, 3)
			g := s.Gamma()
			r0 := grid.Field{1, 0, 0, 0, 0, 0, 0, 0}

			r1 := s.Explicit(r0, nil)
			Expect(r1[0]).To(BeNumerically("~", 1-2*g, 1e-12))
			Expect(r1[1]).To(BeNumerically("~", g, 1e-12))
			Expect(r1[7]).To(BeNumerically("~", g, 1e-12))
		})

		It("corrects only the outflow point on an open grid", func() {
			s, _ := smoothing.New(open, 3)
			g := s.Gamma()
			r0 := grid.Field{2, 0, 0, 0, 0, 0, 0, 1}

			r1 := s.Explicit(r0, nil)
			Expect(r1[0]).To(Equal(2.0))
			Expect(r1[7]).To(BeNumerically("~", 1-g, 1e-12))
		})

		It("also corrects the inflow point under the wrap policy", func() {
			s, _ := smoothing.New(open, 3, smoothing.WithBoundaryPolicy(smoothing.WrapInflow))
			g := s.Gamma()
			r0 := grid.Field{2, 0, 0, 0, 0, 0, 0, 1}

			r1 := s.Explicit(r0, nil)
			Expect(r1[0]).To(BeNumerically("~", 2+g*(1-2), 1e-12))
			Expect(r1[7]).To(BeNumerically("~", 1-g, 1e-12))
		})

		It("scales a Fourier mode by the explicit symbol", func() {
			g := grid.MustNew(32, 2*math.Pi, true)
			s, _ := smoothing.New(g, 4)
			r0 := sine(g, 5)
			r1 := s.Explicit(r0, nil)

			amp := smoothing.ExplicitSymbol(4, 5*g.H())
			for j := range r0 {
				Expect(r1[j]).To(BeNumerically("~", amp*r0[j], 1e-12))
			}
		})
	})

	Describe("Implicit", func() {
		It("reduces to the base term when beta vanishes", func() {
			for _, gr := range []grid.Grid{open, periodic} {
				s, _ := smoothing.New(gr, 1)
				r0 := grid.Field{1, -2, 3, 0.5, 8, -4, 2, 6}
				r2 := s.Implicit(r0, nil)
				for i := range r0 {
					Expect(r2[i]).To(BeNumerically("~", r0[i]/1.2, 1e-12))
				}
			}
		})

		It("leaves its input untouched when given a separate output", func() {
			s, _ := smoothing.New(open, 5)
			r0 := grid.Field{1, 2, 3, 4, 5, 6, 7, 8}
			orig := r0.Clone()
			s.Implicit(r0, nil)
			Expect(r0).To(Equal(orig))
		})

		It("keeps the inflow base term and halves the outflow coupling", func() {
			s, _ := smoothing.New(open, 3, smoothing.WithSweeps(1))
			beta := s.Beta()
			r0 := grid.Field{1, 1, 1, 1, 1, 1, 1, 1}

			r2 := s.Implicit(r0, nil)
			c := 3 / 1.2
			Expect(r2[0]).To(BeNumerically("~", c, 1e-12))
			Expect(r2[7]).To(BeNumerically("~", (c+beta)/(1+beta), 1e-12))
			Expect(r2[3]).To(BeNumerically("~", (c+2*beta)/(1+2*beta), 1e-12))
		})

		It("is a Jacobi iteration rather than Gauss-Seidel", func() {
			s, _ := smoothing.New(periodic, 3, smoothing.WithSweeps(1))
			beta := s.Beta()
			r0 := grid.Field{0, 0, 0, 1, 0, 0, 0, 0}

			r2 := s.Implicit(r0, nil)
			// one sweep reads only the initial guess, so point 5 sees nothing
			Expect(r2[5]).To(BeZero())
			Expect(r2[4]).To(BeNumerically("~", beta/(1+2*beta), 1e-12))
		})

		It("converges to the implicit symbol for moderate growth", func() {
			g := grid.MustNew(32, 2*math.Pi, true)
			s, _ := smoothing.New(g, 2)
			r0 := sine(g, 3)
			r2 := s.Implicit(r0, nil)

			amp := smoothing.ImplicitSymbol(2, 3*g.H())
			for j := range r0 {
				Expect(r2[j]).To(BeNumerically("~", amp*r0[j], 1e-9))
			}
		})

		It("runs the full sweep count even when already converged", func() {
			g := grid.MustNew(16, 1, true)
			s100, _ := smoothing.New(g, 10)
			s1, _ := smoothing.New(g, 10, smoothing.WithSweeps(1))
			r0 := sine(g, 1)

			a := s100.Implicit(r0, nil)
			b := s1.Implicit(r0, nil)
			Expect(a).NotTo(Equal(b))
		})
	})

	Describe("Chain", func() {
		It("zeroes the inflow residual before and after explicit smoothing", func() {
			s, _ := smoothing.New(open, 3)
			r := grid.Field{5, 1, 1, 1, 1, 1, 1, 1}

			out := s.Chain(r, nil)
			Expect(r[0]).To(BeZero())
			Expect(out[0]).To(BeZero())
		})

		It("does not depend on the inflow policy", func() {
			wrap, _ := smoothing.New(open, 10, smoothing.WithBoundaryPolicy(smoothing.WrapInflow))
			outflow, _ := smoothing.New(open, 10)
			r := grid.Field{5, -1, 2, 0.5, 3, 1, -2, 4}

			a := wrap.Chain(r.Clone(), nil)
			b := outflow.Chain(r.Clone(), nil)
			Expect(a).To(Equal(b))
		})
	})
})

var _ = Describe("BoundaryPolicy", func() {
	DescribeTable("parsing",
		func(in string, want smoothing.BoundaryPolicy) {
			got, err := smoothing.ParseBoundaryPolicy(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(got.String()).NotTo(BeEmpty())
		},
		Entry("default", "", smoothing.OutflowOnly),
		Entry("outflow", "outflow", smoothing.OutflowOnly),
		Entry("wrap", "wrap", smoothing.WrapInflow),
	)

	It("rejects unknown names", func() {
		_, err := smoothing.ParseBoundaryPolicy("reflect")
		Expect(err).To(HaveOccurred())
	})

	It("reads its own text form", func() {
		text, err := smoothing.WrapInflow.MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(text)).To(Equal("wrap"))

		var p smoothing.BoundaryPolicy
		Expect(p.UnmarshalText(text)).To(Succeed())
		Expect(p).To(Equal(smoothing.WrapInflow))
		Expect(p.UnmarshalText([]byte("reflect"))).NotTo(Succeed())
	})
})
