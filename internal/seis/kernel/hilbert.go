package kernel

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// analytic computes the analytic signal of x via the frequency domain:
// the FFT with negative frequencies zeroed and positive frequencies
// doubled, inverse-transformed back. The DC bin, and the Nyquist bin for
// even lengths, are kept as-is.
func analytic(x []float64) []complex128 {
	n := len(x)
	if n == 0 {
		return nil
	}

	fft := fourier.NewCmplxFFT(n)
	coeff := make([]complex128, n)
	for i, v := range x {
		coeff[i] = complex(v, 0)
	}
	coeff = fft.Coefficients(coeff, coeff)

	half := n / 2
	for k := 1; k < half; k++ {
		coeff[k] *= 2
	}
	if n%2 != 0 && half >= 1 {
		coeff[half] *= 2
	}
	for k := half + 1; k < n; k++ {
		coeff[k] = 0
	}

	coeff = fft.Sequence(coeff, coeff)
	scale := complex(1/float64(n), 0)
	for i := range coeff {
		coeff[i] *= scale
	}
	return coeff
}

// Envelope returns the Hilbert envelope |analytic(x)| of a trace.
func Envelope(x []float64) []float64 {
	a := analytic(x)
	out := make([]float64, len(x))
	for i, v := range a {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// HilbertTransform returns the Hilbert transform of a trace, the
// imaginary part of its analytic signal.
func HilbertTransform(x []float64) []float64 {
	a := analytic(x)
	out := make([]float64, len(x))
	for i, v := range a {
		out[i] = imag(v)
	}
	return out
}
