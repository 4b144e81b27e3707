// Package kernel provides the paired misfit and adjoint-source generators
// of the preprocessing pipeline. Each kernel is a pure function of one
// receiver's synthetic and observed traces plus sampling metadata; the
// registry resolves a configured name to its function pair once at setup.
package kernel

import "strings"

// MisfitFunc measures the disagreement between one receiver's synthetic
// and observed traces as a single scalar.
type MisfitFunc func(syn, obs []float64, nt int, dt float64) float64

// AdjointFunc derives one receiver's adjoint-source trace from its
// synthetic and observed traces. The result is always a fresh slice.
type AdjointFunc func(syn, obs []float64, nt int, dt float64) []float64

// ID is the closed set of kernel identifiers. Unknown names resolve to
// IDUnknown rather than failing, preserving the tolerant configuration
// surface: zero misfit, pass-through adjoint.
type ID int

const (
	IDUnknown ID = iota
	IDWaveform
	IDTraveltime
	IDAmplitude
	IDEnvelope
	IDCrossCorrelation
)

func (id ID) String() string {
	switch id {
	case IDWaveform:
		return "waveform"
	case IDTraveltime:
		return "traveltime"
	case IDAmplitude:
		return "amplitude"
	case IDEnvelope:
		return "envelope"
	case IDCrossCorrelation:
		return "cross-correlation"
	default:
		return "unknown"
	}
}

// Pair bundles the misfit function and adjoint generator of one kernel.
type Pair struct {
	ID      ID
	Misfit  MisfitFunc
	Adjoint AdjointFunc
}

// envelopeEps stabilizes the envelope adjoint against division by small
// envelope values. Shared by the misfit and adjoint sides of the kernel.
const envelopeEps = 0.05

var aliases = map[string]ID{
	"waveform": IDWaveform,
	"wav":      IDWaveform,
	"wdiff":    IDWaveform,

	"traveltime": IDTraveltime,
	"tt":         IDTraveltime,
	"wtime":      IDTraveltime,

	"amplitude": IDAmplitude,
	"ampl":      IDAmplitude,
	"wampl":     IDAmplitude,

	"envelope": IDEnvelope,
	"env":      IDEnvelope,
	"ediff":    IDEnvelope,

	"cross-correlation": IDCrossCorrelation,
	"cdiff":             IDCrossCorrelation,
}

var pairs = map[ID]Pair{
	IDWaveform:         {IDWaveform, misfitWaveform, adjointWaveform},
	IDTraveltime:       {IDTraveltime, misfitTraveltime, adjointTraveltime},
	IDAmplitude:        {IDAmplitude, misfitAmplitude, adjointAmplitude},
	IDEnvelope:         {IDEnvelope, misfitEnvelope, adjointEnvelope},
	IDCrossCorrelation: {IDCrossCorrelation, misfitCrossCorrelation, adjointCrossCorrelation},
}

// Resolve maps a kernel name, case-insensitively, to its function pair.
// The second result reports whether the name was recognized; unrecognized
// names return the fallback pair (zero misfit, observed trace verbatim).
func Resolve(name string) (Pair, bool) {
	id, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Pair{ID: IDUnknown, Misfit: misfitFallback, Adjoint: adjointFallback}, false
	}
	return pairs[id], true
}

// Names returns the canonical kernel names, for help output.
func Names() []string {
	return []string{"waveform", "traveltime", "amplitude", "envelope", "cross-correlation"}
}

func misfitFallback(syn, obs []float64, nt int, dt float64) float64 {
	return 0
}

func adjointFallback(syn, obs []float64, nt int, dt float64) []float64 {
	out := make([]float64, len(obs))
	copy(out, obs)
	return out
}
