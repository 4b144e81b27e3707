// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the synthetic waveforms and gather builders
// used across test files to reduce duplication.
package testutil

import (
	"math"
	"testing"

	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta fails the test if got is not within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("got %g, want %g (±%g)", got, want, delta)
	}
}

// Spike returns an nt-sample trace that is zero except for a unit spike
// at sample index at.
func Spike(nt, at int) []float64 {
	x := make([]float64, nt)
	if at >= 0 && at < nt {
		x[at] = 1
	}
	return x
}

// Ricker returns an nt-sample Ricker wavelet with peak frequency f0 (Hz),
// centered at t0 seconds, sampled at dt. A standard band-limited test
// signal for filter and kernel tests.
func Ricker(nt int, dt, f0, t0 float64) []float64 {
	x := make([]float64, nt)
	for i := range x {
		arg := math.Pi * f0 * (float64(i)*dt - t0)
		a := arg * arg
		x[i] = (1 - 2*a) * math.Exp(-a)
	}
	return x
}

// ConstantMatrix returns an nt-by-nr matrix with every sample set to v.
func ConstantMatrix(nt, nr int, v float64) *trace.Matrix {
	m := trace.NewMatrix(nt, nr)
	m.Fill(v)
	return m
}

// ConstantGather builds a gather of identical constant matrices for the
// given channels.
func ConstantGather(channels []string, nt, nr int, v float64) trace.Gather {
	g := make(trace.Gather, len(channels))
	for _, ch := range channels {
		g[ch] = ConstantMatrix(nt, nr, v)
	}
	return g
}

// Header returns a header matching an nt-by-nr matrix with uniform
// receiver spacing dx and no explicit geometry.
func Header(nt, nr int, dt, dx float64) *trace.Header {
	return &trace.Header{Dt: dt, Nt: nt, Nr: nr, Dx: dx}
}
