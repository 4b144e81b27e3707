package pipeline

import (
	"bufio"
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// ResidualFile is the name of the plain-text residual artifact written
// under the call's working path.
const ResidualFile = "residuals"

// writeResiduals evaluates the misfit kernel per channel per receiver and
// persists the residual artifact: one value per line, channel-major in
// the configured channel order, receiver-ordered within a channel. With a
// single configured channel this matches the historical single-channel
// artifact byte for byte. The file is rewritten on every call, never
// appended.
func (p *Processor) writeResiduals(path string, syn, obs trace.Gather, h *trace.Header) (map[string][]float64, error) {
	residuals := make(map[string][]float64, len(p.cfg.Channels))
	for _, ch := range p.cfg.Channels {
		s, d := syn[ch], obs[ch]
		r := make([]float64, h.Nr)
		for ir := 0; ir < h.Nr; ir++ {
			r[ir] = p.pair.Misfit(s.Trace(ir), d.Trace(ir), h.Nt, h.Dt)
			tracef("misfit channel=%s receiver=%d value=%g", ch, ir, r[ir])
		}
		residuals[ch] = r
	}

	name := filepath.Join(path, ResidualFile)
	f, err := p.fsys.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ch := range p.cfg.Channels {
		for _, v := range residuals[ch] {
			fmt.Fprintf(w, "%.18e\n", v)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush %s: %w", name, err)
	}

	diagf("wrote %s: %d channels x %d receivers", name, len(p.cfg.Channels), h.Nr)
	return residuals, nil
}

// summarizeResiduals reduces per-channel residual vectors to the
// statistics recorded in a run summary.
func summarizeResiduals(channels []string, residuals map[string][]float64) []ChannelStats {
	stats := make([]ChannelStats, 0, len(channels))
	for _, ch := range channels {
		r := residuals[ch]
		if len(r) == 0 {
			stats = append(stats, ChannelStats{Channel: ch})
			continue
		}
		stats = append(stats, ChannelStats{
			Channel: ch,
			Nr:      len(r),
			Sum:     floats.Sum(r),
			Mean:    stat.Mean(r, nil),
			Max:     floats.Max(r),
		})
	}
	return stats
}
