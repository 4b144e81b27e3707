package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// misfitWaveform is the direct sample-wise difference norm
// sqrt(sum (s-d)^2 * dt).
func misfitWaveform(syn, obs []float64, nt int, dt float64) float64 {
	var sum float64
	for i := 0; i < nt; i++ {
		r := syn[i] - obs[i]
		sum += r * r
	}
	return math.Sqrt(sum * dt)
}

// misfitTraveltime estimates the travel-time shift between synthetic and
// observed as the lag maximizing their absolute cross-correlation. Lags
// are scanned in increasing order and the first strict maximum wins, so
// ties resolve deterministically. The misfit is -lag*dt, with lag > 0
// meaning the synthetic arrives later than the observed.
func misfitTraveltime(syn, obs []float64, nt int, dt float64) float64 {
	lag := crossCorrelationLag(syn, obs, nt)
	return -float64(lag) * dt
}

// crossCorrelationLag returns the lag, in samples, of the first strict
// maximum of |sum_i syn[i]*obs[i-lag]| over lag in [-(nt-1), nt-1].
func crossCorrelationLag(syn, obs []float64, nt int) int {
	best := math.Inf(-1)
	bestLag := 0
	for lag := -(nt - 1); lag <= nt-1; lag++ {
		var c float64
		for i := 0; i < nt; i++ {
			j := i - lag
			if j < 0 || j >= nt {
				continue
			}
			c += syn[i] * obs[j]
		}
		if v := math.Abs(c); v > best {
			best = v
			bestLag = lag
		}
	}
	return bestLag
}

// misfitAmplitude is the log amplitude-ratio misfit ln(|s|/|d|) over
// dt-weighted RMS amplitudes. Zero when either trace has no energy.
func misfitAmplitude(syn, obs []float64, nt int, dt float64) float64 {
	ns := weightedNorm(syn[:nt], dt)
	nd := weightedNorm(obs[:nt], dt)
	if ns == 0 || nd == 0 {
		return 0
	}
	return math.Log(ns / nd)
}

// misfitEnvelope is the envelope-difference norm
// sqrt(sum (E(s)-E(d))^2 * dt), E the Hilbert envelope.
func misfitEnvelope(syn, obs []float64, nt int, dt float64) float64 {
	es := Envelope(syn[:nt])
	ed := Envelope(obs[:nt])
	var sum float64
	for i := range es {
		r := es[i] - ed[i]
		sum += r * r
	}
	return math.Sqrt(sum * dt)
}

// misfitCrossCorrelation is 1 - <s,d>/(|s||d|), the normalized correlation
// deficit. Zero when either trace has no energy.
func misfitCrossCorrelation(syn, obs []float64, nt int, dt float64) float64 {
	ns := floats.Norm(syn[:nt], 2)
	nd := floats.Norm(obs[:nt], 2)
	if ns == 0 || nd == 0 {
		return 0
	}
	return 1 - floats.Dot(syn[:nt], obs[:nt])/(ns*nd)
}

func weightedNorm(x []float64, dt float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum * dt)
}
