package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMisfitWaveform(t *testing.T) {
	const (
		nt = 10
		dt = 0.004
	)
	syn := make([]float64, nt)
	obs := make([]float64, nt)
	for i := range syn {
		syn[i] = 1.0
		obs[i] = 0.5
	}

	// Residual 0.5 per sample: sqrt(10 * 0.25 * dt).
	want := math.Sqrt(float64(nt) * 0.25 * dt)
	assert.InDelta(t, want, misfitWaveform(syn, obs, nt, dt), 1e-15)

	assert.Zero(t, misfitWaveform(syn, syn, nt, dt), "identical traces must give zero misfit")
}

func TestMisfitTraveltimeRecoversShift(t *testing.T) {
	const (
		nt = 200
		dt = 0.004
	)
	// Synthetic delayed by 5 samples relative to observed: lag +5,
	// misfit -5*dt.
	obs := rickerTrace(nt, dt, 15, 0.2)
	syn := rickerTrace(nt, dt, 15, 0.2+5*dt)

	got := misfitTraveltime(syn, obs, nt, dt)
	assert.InDelta(t, -5*dt, got, 1e-12)

	// Flipped roles flip the sign.
	assert.InDelta(t, 5*dt, misfitTraveltime(obs, syn, nt, dt), 1e-12)

	assert.Zero(t, misfitTraveltime(obs, obs, nt, dt), "aligned traces must give zero shift")
}

func TestMisfitAmplitude(t *testing.T) {
	const (
		nt = 64
		dt = 0.004
	)
	obs := rickerTrace(nt, dt, 20, 0.1)
	syn := make([]float64, nt)
	for i, v := range obs {
		syn[i] = 2 * v
	}

	// Double amplitude: ln(2).
	assert.InDelta(t, math.Log(2), misfitAmplitude(syn, obs, nt, dt), 1e-12)
	assert.Zero(t, misfitAmplitude(obs, obs, nt, dt))

	zeros := make([]float64, nt)
	assert.Zero(t, misfitAmplitude(zeros, obs, nt, dt), "zero-energy synthetic must not produce -Inf")
	assert.Zero(t, misfitAmplitude(syn, zeros, nt, dt), "zero-energy observed must not produce +Inf")
}

func TestMisfitEnvelope(t *testing.T) {
	const (
		nt = 128
		dt = 0.004
	)
	obs := rickerTrace(nt, dt, 15, 0.2)

	assert.Zero(t, misfitEnvelope(obs, obs, nt, dt), "identical traces have identical envelopes")

	syn := rickerTrace(nt, dt, 15, 0.25)
	assert.Greater(t, misfitEnvelope(syn, obs, nt, dt), 0.0)
}

func TestMisfitCrossCorrelation(t *testing.T) {
	const (
		nt = 64
		dt = 0.004
	)
	obs := rickerTrace(nt, dt, 20, 0.1)

	// Perfectly correlated, including a pure amplitude scaling.
	scaled := make([]float64, nt)
	for i, v := range obs {
		scaled[i] = 3 * v
	}
	assert.InDelta(t, 0, misfitCrossCorrelation(scaled, obs, nt, dt), 1e-12)

	// Anti-correlated: deficit of 2.
	neg := make([]float64, nt)
	for i, v := range obs {
		neg[i] = -v
	}
	assert.InDelta(t, 2, misfitCrossCorrelation(neg, obs, nt, dt), 1e-12)

	zeros := make([]float64, nt)
	assert.Zero(t, misfitCrossCorrelation(zeros, obs, nt, dt), "zero-energy trace guards the division")
}

func TestCrossCorrelationLagTieBreaksDeterministically(t *testing.T) {
	// A symmetric pair produces tied correlation peaks; the first strict
	// maximum in ascending lag order must win every time.
	syn := []float64{0, 1, 0, 1, 0}
	obs := []float64{0, 1, 0, 1, 0}

	first := crossCorrelationLag(syn, obs, len(syn))
	for i := 0; i < 10; i++ {
		require.Equal(t, first, crossCorrelationLag(syn, obs, len(syn)))
	}
}

func TestEnvelopeOfAnalyticPair(t *testing.T) {
	const n = 256
	// For a pure cosine the Hilbert envelope is the constant amplitude
	// (edge bins excepted for finite n; a periodic frequency keeps it exact).
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(2 * math.Pi * 8 * float64(i) / n)
	}

	env := Envelope(x)
	for i, v := range env {
		assert.InDeltaf(t, 1.0, v, 1e-9, "envelope sample %d", i)
	}
}

func TestHilbertTransformOfCosine(t *testing.T) {
	const n = 256
	// H(cos) = sin for a periodic tone.
	x := make([]float64, n)
	want := make([]float64, n)
	for i := range x {
		phase := 2 * math.Pi * 8 * float64(i) / n
		x[i] = math.Cos(phase)
		want[i] = math.Sin(phase)
	}

	got := HilbertTransform(x)
	for i := range got {
		assert.InDeltaf(t, want[i], got[i], 1e-9, "sample %d", i)
	}
}
