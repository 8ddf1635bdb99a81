package integrators_test

import (
	"math"
	"testing"

	"github.com/san-kum/advsim/internal/grid"
	"github.com/san-kum/advsim/internal/integrators"
	"github.com/san-kum/advsim/internal/smoothing"
)

func benchField(g grid.Grid) grid.Field {
	u := g.Coordinates()
	for j := range u {
		u[j] = math.Cos(u[j])
	}
	return u
}

func benchStep(b *testing.B, n int, smoothed bool) {
	g := grid.MustNew(n, 2*math.Pi, true)
	var opts []integrators.Option
	if smoothed {
		s, err := smoothing.New(g, 2)
		if err != nil {
			b.Fatal(err)
		}
		opts = append(opts, integrators.WithSmoother(s))
	}
	rk, err := integrators.NewLowStorageRK(g, 0.5*g.H(), 1.0/32, opts...)
	if err != nil {
		b.Fatal(err)
	}
	u := benchField(g)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rk.Step(u)
	}
}

func BenchmarkLowStorageRK64(b *testing.B)           { benchStep(b, 64, false) }
func BenchmarkLowStorageRK1024(b *testing.B)         { benchStep(b, 1024, false) }
func BenchmarkLowStorageRKSmoothed64(b *testing.B)   { benchStep(b, 64, true) }
func BenchmarkLowStorageRKSmoothed1024(b *testing.B) { benchStep(b, 1024, true) }
