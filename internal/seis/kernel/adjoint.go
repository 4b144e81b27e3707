package kernel

import (
	"gonum.org/v1/gonum/floats"
)

// adjointWaveform is the derivative of the waveform-difference misfit:
// the raw residual s - d.
func adjointWaveform(syn, obs []float64, nt int, dt float64) []float64 {
	out := make([]float64, nt)
	for i := 0; i < nt; i++ {
		out[i] = syn[i] - obs[i]
	}
	return out
}

// adjointTraveltime back-propagates the travel-time shift: the synthetic's
// central-difference velocity, normalized by its dt-weighted energy and
// scaled by the traveltime misfit. All zeros when the velocity carries no
// energy, which keeps flat traces from blowing up the normalization.
func adjointTraveltime(syn, obs []float64, nt int, dt float64) []float64 {
	out := make([]float64, nt)
	if nt < 3 || dt <= 0 {
		return out
	}
	for i := 1; i < nt-1; i++ {
		out[i] = (syn[i+1] - syn[i-1]) / (2 * dt)
	}
	var energy float64
	for _, v := range out {
		energy += v * v
	}
	energy *= dt
	if energy == 0 {
		return out
	}
	scale := misfitTraveltime(syn, obs, nt, dt) / energy
	floats.Scale(scale, out)
	return out
}

// adjointAmplitude scales the synthetic by misfit over its dt-weighted
// energy. All zeros when the synthetic has no energy.
func adjointAmplitude(syn, obs []float64, nt int, dt float64) []float64 {
	out := make([]float64, nt)
	var energy float64
	for i := 0; i < nt; i++ {
		energy += syn[i] * syn[i]
	}
	energy *= dt
	if energy == 0 {
		return out
	}
	scale := misfitAmplitude(syn, obs, nt, dt) / energy
	for i := 0; i < nt; i++ {
		out[i] = scale * syn[i]
	}
	return out
}

// adjointEnvelope back-propagates the envelope difference through the
// analytic signal: with etmp = (Es-Ed)/(Es + eps*max(Es)),
// adj = etmp*s - H(etmp*H(s)). All zeros for an all-zero synthetic.
func adjointEnvelope(syn, obs []float64, nt int, dt float64) []float64 {
	out := make([]float64, nt)
	es := Envelope(syn[:nt])
	ed := Envelope(obs[:nt])

	esMax := floats.Max(es)
	if esMax == 0 {
		return out
	}

	etmp := make([]float64, nt)
	for i := 0; i < nt; i++ {
		etmp[i] = (es[i] - ed[i]) / (es[i] + envelopeEps*esMax)
	}

	hs := HilbertTransform(syn[:nt])
	for i := 0; i < nt; i++ {
		hs[i] *= etmp[i]
	}
	hhs := HilbertTransform(hs)

	for i := 0; i < nt; i++ {
		out[i] = etmp[i]*syn[i] - hhs[i]
	}
	return out
}

// adjointCrossCorrelation is the gradient of the normalized-correlation
// misfit with respect to the synthetic:
// ( <s,d>/|s|^2 * s - d ) / (|s||d|). All zeros when either trace has no
// energy, matching the misfit's guard.
func adjointCrossCorrelation(syn, obs []float64, nt int, dt float64) []float64 {
	out := make([]float64, nt)
	ns := floats.Norm(syn[:nt], 2)
	nd := floats.Norm(obs[:nt], 2)
	if ns == 0 || nd == 0 {
		return out
	}
	dot := floats.Dot(syn[:nt], obs[:nt])
	for i := 0; i < nt; i++ {
		out[i] = (dot/(ns*ns)*syn[i] - obs[i]) / (ns * nd)
	}
	return out
}
