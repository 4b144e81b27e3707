package signal

import (
	"math"

	"github.com/halfspace-data/seisprep/internal/monitoring"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// Mute zeroes, per receiver, every sample earlier than the linear moveout
// line t = slope*offset + intercept, suppressing direct-arrival energy.
// Offsets come from the header's receiver geometry, or from uniform
// spacing h.Dx when constantSpacing is set. A header without usable
// geometry falls back to constant spacing with a logged warning.
func Mute(m *trace.Matrix, h *trace.Header, slope, intercept float64, constantSpacing bool) {
	nt, nr := m.Dims()
	if h.Dt <= 0 {
		return
	}

	useGeometry := !constantSpacing
	if useGeometry && len(h.Rx) < nr {
		monitoring.Logf("mute: header has %d receiver coordinates for %d receivers; assuming constant spacing", len(h.Rx), nr)
		useGeometry = false
	}

	for ir := 0; ir < nr; ir++ {
		var offset float64
		if useGeometry {
			offset = math.Abs(h.Rx[ir] - h.Sx)
		} else {
			offset = h.Dx * float64(ir)
		}

		tcut := slope*offset + intercept
		icut := int(math.Ceil(tcut / h.Dt))
		if icut <= 0 {
			continue
		}
		if icut > nt {
			icut = nt
		}

		col := m.Trace(ir)
		for it := 0; it < icut; it++ {
			col[it] = 0
		}
	}
}
