package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/advsim/internal/grid"
)

// Spectrum returns the single-sided amplitude of u per wavenumber
// k = 0..n/2, scaled so that cos(k*x) sampled over one period has
// amplitude 1 at k.
func Spectrum(u grid.Field) []float64 {
	n := len(u)
	if n == 0 {
		return nil
	}

	coeffs := fft.FFTReal(u)
	amps := make([]float64, n/2+1)
	for k := range amps {
		a := cmplx.Abs(coeffs[k]) / float64(n)
		if k != 0 && 2*k != n {
			a *= 2
		}
		amps[k] = a
	}
	return amps
}

// DominantMode returns the wavenumber k >= 1 with the largest amplitude.
// It returns 0 when the spectrum holds only the mean.
func DominantMode(spectrum []float64) (k int, amp float64) {
	for i := 1; i < len(spectrum); i++ {
		if spectrum[i] > amp {
			k, amp = i, spectrum[i]
		}
	}
	return k, amp
}
