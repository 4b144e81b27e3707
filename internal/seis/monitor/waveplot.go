// Package monitor renders quality-control artifacts for preprocessing
// runs: per-channel wiggle plots of trace gathers and an HTML report of
// residual statistics pulled from the run store.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// WavePlotter renders trace gathers as wiggle plots, one PNG per channel.
// Each receiver is drawn as a line offset vertically by its index, the
// classic gather display.
type WavePlotter struct {
	OutputDir string
	// Gain scales sample amplitudes relative to the receiver spacing of
	// the display. Zero means auto: the largest amplitude spans 0.8 of
	// one receiver slot.
	Gain float64
}

// PlotGather writes one PNG per listed channel and returns the file
// paths. File names follow waves_<stem>_<channel>.png.
func (wp *WavePlotter) PlotGather(stem string, g trace.Gather, h *trace.Header, channels []string) ([]string, error) {
	if err := os.MkdirAll(wp.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	for _, ch := range channels {
		m, ok := g[ch]
		if !ok {
			return nil, fmt.Errorf("channel %q: %w", ch, trace.ErrMissingChannel)
		}
		file := filepath.Join(wp.OutputDir, fmt.Sprintf("waves_%s_%s.png", stem, ch))
		if err := wp.plotChannel(file, ch, m, h); err != nil {
			return nil, fmt.Errorf("channel %q: %w", ch, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func (wp *WavePlotter) plotChannel(file, channel string, m *trace.Matrix, h *trace.Header) error {
	nt, nr := m.Dims()

	p := plot.New()
	p.Title.Text = fmt.Sprintf("channel %s (%d receivers, dt=%g s)", channel, nr, h.Dt)
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "receiver"

	gain := wp.Gain
	if gain == 0 {
		maxAbs := 0.0
		for ir := 0; ir < nr; ir++ {
			for _, v := range m.Trace(ir) {
				if a := abs(v); a > maxAbs {
					maxAbs = a
				}
			}
		}
		if maxAbs > 0 {
			gain = 0.8 / maxAbs
		}
	}

	for ir := 0; ir < nr; ir++ {
		col := m.Trace(ir)
		pts := make(plotter.XYs, nt)
		for it := 0; it < nt; it++ {
			pts[it] = plotter.XY{X: float64(it) * h.Dt, Y: float64(ir) + gain*col[it]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("receiver %d: %w", ir, err)
		}
		line.Width = vg.Points(1)
		line.Color = color.RGBA{R: 30, G: 60, B: 120, A: 255}
		p.Add(line)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
