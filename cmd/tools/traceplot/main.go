// Command traceplot renders a trace gather as per-channel wiggle-plot
// PNGs, one file per channel, rendering channels concurrently.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/halfspace-data/seisprep/internal/config"
	"github.com/halfspace-data/seisprep/internal/fsutil"
	"github.com/halfspace-data/seisprep/internal/seis/monitor"
	"github.com/halfspace-data/seisprep/internal/seis/seisio"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

func main() {
	dir := flag.String("dir", "traces/obs", "directory holding the gather")
	format := flag.String("format", "ascii", "trace I/O format (one of: ascii, bin)")
	channels := flag.String("channels", "", "channel tokens, one character each; required")
	out := flag.String("out", "plots", "output directory for PNG files")
	stem := flag.String("stem", "gather", "file name stem: waves_<stem>_<channel>.png")
	gain := flag.Float64("gain", 0, "amplitude gain (0 = auto)")
	flag.Parse()

	chans := config.ParseChannels(*channels)
	if len(chans) == 0 {
		fmt.Fprintln(os.Stderr, "traceplot: -channels is required")
		flag.Usage()
		os.Exit(2)
	}

	codec, err := seisio.Lookup(*format)
	if err != nil {
		log.Fatalf("traceplot: %v", err)
	}

	fsys := fsutil.OSFileSystem{}
	mats := make([]*trace.Matrix, len(chans))
	hdrs := make([]*trace.Header, len(chans))

	var g errgroup.Group
	for i, ch := range chans {
		g.Go(func() error {
			m, h, err := codec.Read(fsys, *dir, ch)
			if err != nil {
				return fmt.Errorf("channel %q: %w", ch, err)
			}
			mats[i], hdrs[i] = m, h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("traceplot: %v", err)
	}

	gather := make(trace.Gather, len(chans))
	headers := make(map[string]*trace.Header, len(chans))
	for i, ch := range chans {
		gather[ch] = mats[i]
		headers[ch] = hdrs[i]
	}

	h, warnings, err := trace.ReconcileHeaders(headers, chans, trace.Expect{})
	if err != nil {
		log.Fatalf("traceplot: %v", err)
	}
	for _, w := range warnings {
		log.Printf("traceplot: %s", w)
	}

	wp := &monitor.WavePlotter{OutputDir: *out, Gain: *gain}
	files, err := wp.PlotGather(*stem, gather, h, chans)
	if err != nil {
		log.Fatalf("traceplot: %v", err)
	}
	for _, f := range files {
		fmt.Println(f)
	}
}
