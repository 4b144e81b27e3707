package monitor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/halfspace-data/seisprep/internal/seis/trace"
	"github.com/halfspace-data/seisprep/internal/testutil"
)

func TestPlotGatherWritesPerChannelPNGs(t *testing.T) {
	dir := t.TempDir()
	wp := &WavePlotter{OutputDir: dir}

	channels := []string{"x", "z"}
	const (
		nt = 64
		nr = 4
	)
	g := make(trace.Gather, len(channels))
	for _, ch := range channels {
		m := trace.NewMatrix(nt, nr)
		for ir := 0; ir < nr; ir++ {
			m.SetTrace(ir, testutil.Ricker(nt, 0.004, 15, 0.1))
		}
		g[ch] = m
	}
	h := testutil.Header(nt, nr, 0.004, 25)

	files, err := wp.PlotGather("obs", g, h, channels)
	if err != nil {
		t.Fatalf("PlotGather: %v", err)
	}
	want := []string{
		filepath.Join(dir, "waves_obs_x.png"),
		filepath.Join(dir, "waves_obs_z.png"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for i, f := range files {
		if f != want[i] {
			t.Errorf("file[%d] = %q, want %q", i, f, want[i])
		}
		info, err := os.Stat(f)
		if err != nil {
			t.Fatalf("stat %s: %v", f, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", f)
		}
	}
}

func TestPlotGatherMissingChannel(t *testing.T) {
	wp := &WavePlotter{OutputDir: t.TempDir()}
	g := trace.Gather{"x": trace.NewMatrix(8, 1)}
	h := testutil.Header(8, 1, 0.004, 25)

	_, err := wp.PlotGather("obs", g, h, []string{"x", "z"})
	if !errors.Is(err, trace.ErrMissingChannel) {
		t.Errorf("error = %v, want ErrMissingChannel", err)
	}
}

func TestPlotGatherZeroGather(t *testing.T) {
	wp := &WavePlotter{OutputDir: t.TempDir()}
	g := trace.Gather{"x": trace.NewMatrix(16, 2)}
	h := testutil.Header(16, 2, 0.004, 25)

	// An all-zero gather leaves the auto gain at zero; the plot must
	// still render flat lines rather than divide by the zero amplitude.
	if _, err := wp.PlotGather("init", g, h, []string{"x"}); err != nil {
		t.Fatalf("PlotGather: %v", err)
	}
}
