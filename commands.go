package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/halfspace-data/seisprep/internal/config"
	"github.com/halfspace-data/seisprep/internal/db"
	"github.com/halfspace-data/seisprep/internal/seis/pipeline"
	"github.com/halfspace-data/seisprep/internal/seis/seisio"
)

const defaultDBPath = "seisprep.db"

// pipelineFlags binds the configuration surface onto a FlagSet, shared
// by every subcommand that constructs a Processor.
type pipelineFlags struct {
	path     string
	channels string
	dbPath   string
	verbose  bool
	quiet    bool
	cfg      config.Config
}

func newPipelineFlags(fs *flag.FlagSet) *pipelineFlags {
	pf := &pipelineFlags{cfg: config.Default()}

	fs.StringVar(&pf.path, "path", ".", "working path containing the trace directories")
	fs.StringVar(&pf.cfg.Format, "format", pf.cfg.Format, "trace I/O format (one of: ascii, bin)")
	fs.StringVar(&pf.channels, "channels", "", "channel tokens, one character each (e.g. xz); required")
	fs.StringVar(&pf.cfg.Misfit, "misfit", pf.cfg.Misfit, "misfit kernel name")
	fs.BoolVar(&pf.cfg.Normalize, "normalize", pf.cfg.Normalize, "normalize adjoint traces by the observed trace norm")
	fs.BoolVar(&pf.cfg.Mute, "mute", pf.cfg.Mute, "mute direct arrivals")
	fs.Float64Var(&pf.cfg.MuteSlope, "muteslope", 0, "mute moveout slope (s per unit offset)")
	fs.Float64Var(&pf.cfg.MuteConst, "muteconst", 0, "mute moveout intercept (s)")
	fs.BoolVar(&pf.cfg.Bandpass, "bandpass", pf.cfg.Bandpass, "filter traces")
	fs.Float64Var(&pf.cfg.FreqLo, "freqlo", 0, "low corner frequency (Hz; 0 = open)")
	fs.Float64Var(&pf.cfg.FreqHi, "freqhi", 0, "high corner frequency (Hz; 0 = open)")
	fs.Float64Var(&pf.cfg.Dt, "dt", 0, "expected sample interval (s; 0 = use header)")
	fs.IntVar(&pf.cfg.Nt, "nt", 0, "expected sample count (0 = use header)")
	fs.IntVar(&pf.cfg.Nr, "nrec", 0, "expected receiver count (0 = use header)")
	fs.StringVar(&pf.dbPath, "db", "", "run database file; empty disables run recording")
	fs.BoolVar(&pf.verbose, "v", false, "enable diagnostic logging")
	fs.BoolVar(&pf.quiet, "q", false, "suppress warning logging")
	return pf
}

// build turns the parsed flags into a Processor plus an optional store.
// The returned cleanup closes the store and must run before exit.
func (pf *pipelineFlags) build() (*pipeline.Processor, func(), error) {
	pf.cfg.Channels = config.ParseChannels(pf.channels)

	var ops, diag io.Writer
	if !pf.quiet {
		ops = os.Stderr
	}
	if pf.verbose {
		diag = os.Stderr
	}
	pipeline.SetLogWriters(ops, diag, nil)
	seisio.SetLogWriters(ops, diag)

	var opts []pipeline.Option
	cleanup := func() {}
	if pf.dbPath != "" {
		store, err := db.NewDB(pf.dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open run database: %w", err)
		}
		opts = append(opts, pipeline.WithRunStore(store))
		cleanup = func() { store.Close() }
	}

	p, err := pipeline.New(pf.cfg, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

func runPrepare(args []string) {
	fs := flag.NewFlagSet("prepare", flag.ExitOnError)
	pf := newPipelineFlags(fs)
	fs.Parse(args)

	p, cleanup, err := pf.build()
	if err != nil {
		log.Fatalf("prepare: %v", err)
	}
	defer cleanup()

	if err := p.PrepareEvalGrad(pf.path); err != nil {
		log.Fatalf("prepare: %v", err)
	}
}

func runApplyHess(args []string) {
	fs := flag.NewFlagSet("apply-hess", flag.ExitOnError)
	pf := newPipelineFlags(fs)
	fs.Parse(args)

	p, cleanup, err := pf.build()
	if err != nil {
		log.Fatalf("apply-hess: %v", err)
	}
	defer cleanup()

	if err := p.PrepareApplyHess(pf.path); err != nil {
		log.Fatalf("apply-hess: %v", err)
	}
}

func runInitAdj(args []string) {
	fs := flag.NewFlagSet("init-adj", flag.ExitOnError)
	pf := newPipelineFlags(fs)
	fs.Parse(args)

	p, cleanup, err := pf.build()
	if err != nil {
		log.Fatalf("init-adj: %v", err)
	}
	defer cleanup()

	if err := p.InitializeAdjointTraces(pf.path); err != nil {
		log.Fatalf("init-adj: %v", err)
	}
}

func runListRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "run database file")
	limit := fs.Int("limit", 20, "number of runs to show (0 = all)")
	fs.Parse(args)

	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("runs: %v", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(*limit)
	if err != nil {
		log.Fatalf("runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"run", "created", "path", "kernel", "channels", "mean residual", "duration (ms)"})
	for _, r := range runs {
		var mean float64
		var n int
		for _, cs := range r.Stats {
			mean += cs.Mean
			n++
		}
		if n > 0 {
			mean /= float64(n)
		}
		t.AppendRow(table.Row{
			r.ID[:8],
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Path,
			r.Kernel,
			fmt.Sprintf("%v", r.Channels),
			fmt.Sprintf("%.6g", mean),
			fmt.Sprintf("%.1f", r.DurationMs),
		})
	}
	t.Render()
}
