package grid

import "math"

// Field holds one value per grid point.
type Field []float64

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// Reuse returns f when it already holds n values, otherwise a new Field.
func (f Field) Reuse(n int) Field {
	if len(f) == n {
		return f
	}
	return make(Field, n)
}

func (f Field) IsFinite() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// L1Distance is sum|f[i]-other[i]| over the common prefix.
func (f Field) L1Distance(other Field) float64 {
	sum := 0.0
	for i := range f {
		if i >= len(other) {
			break
		}
		sum += math.Abs(f[i] - other[i])
	}
	return sum
}

func (f Field) Sum() float64 {
	sum := 0.0
	for _, v := range f {
		sum += v
	}
	return sum
}

func (f Field) MaxAbs() float64 {
	m := 0.0
	for _, v := range f {
		if a := math.Abs(v); a > m || math.IsNaN(a) {
			m = a
		}
	}
	return m
}

// Bounds returns the smallest and largest value. An empty field yields 0, 0.
func (f Field) Bounds() (lo, hi float64) {
	if len(f) == 0 {
		return 0, 0
	}
	lo, hi = f[0], f[0]
	for _, v := range f[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
