// Package pipeline drives the multi-channel preprocessing used for
// gradient computation: it conditions observed and synthetic gathers,
// evaluates the configured misfit kernel into a residual vector, and
// turns the synthetics into adjoint-source traces. It is the only
// component aware of the channel set; every numeric stage it calls
// operates on a single channel's matrix plus the shared header.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/halfspace-data/seisprep/internal/config"
	"github.com/halfspace-data/seisprep/internal/fsutil"
	"github.com/halfspace-data/seisprep/internal/seis/kernel"
	"github.com/halfspace-data/seisprep/internal/seis/seisio"
	"github.com/halfspace-data/seisprep/internal/seis/signal"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
	"github.com/halfspace-data/seisprep/internal/timeutil"
)

// RunSummary is the bookkeeping record of one gradient-preparation call,
// handed to an optional RunStore after the artifacts are written.
type RunSummary struct {
	ID       string
	Path     string
	Kernel   string
	Channels []string
	Duration time.Duration
	Stats    []ChannelStats
}

// ChannelStats summarizes one channel's residual vector.
type ChannelStats struct {
	Channel string
	Nr      int
	Sum     float64
	Mean    float64
	Max     float64
}

// RunStore records run summaries. A nil store disables recording.
type RunStore interface {
	RecordRun(s RunSummary) error
}

// Processor applies the configured stages identically across the channel
// set. Construct one per configuration snapshot with New; a Processor is
// immutable after construction and safe to reuse across calls.
type Processor struct {
	cfg   config.Config
	codec seisio.Codec
	pair  kernel.Pair
	fsys  fsutil.FileSystem
	clock timeutil.Clock
	store RunStore
}

// Option injects a collaborator into a Processor under construction.
type Option func(*Processor)

// WithFileSystem replaces the OS filesystem, so artifact tests never
// touch disk.
func WithFileSystem(fsys fsutil.FileSystem) Option {
	return func(p *Processor) { p.fsys = fsys }
}

// WithClock replaces the real clock used for run-duration stamps.
func WithClock(c timeutil.Clock) Option {
	return func(p *Processor) { p.clock = c }
}

// WithRunStore attaches a store that records one summary per
// gradient-preparation call.
func WithRunStore(s RunStore) Option {
	return func(p *Processor) { p.store = s }
}

// New validates the configuration snapshot and resolves everything that
// should be resolved once: the I/O format and the kernel pair. Missing
// required parameters and unknown formats are fatal here, before any
// numeric work; an unknown kernel name is tolerated and logged, keeping
// the historical configuration surface.
func New(cfg config.Config, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := seisio.Lookup(cfg.Format)
	if err != nil {
		return nil, err
	}

	pair, known := kernel.Resolve(cfg.Misfit)
	if !known {
		opsf("unknown misfit kernel %q: misfit will be zero, adjoint will pass the observed trace through", cfg.Misfit)
	}

	p := &Processor{
		cfg:   cfg,
		codec: codec,
		pair:  pair,
		fsys:  fsutil.OSFileSystem{},
		clock: timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}

	diagf("processor ready: format=%s kernel=%s channels=%v", cfg.Format, pair.ID, cfg.Channels)
	return p, nil
}

// Config returns the configuration snapshot the processor was built from.
func (p *Processor) Config() config.Config { return p.cfg }

// Kernel returns the resolved kernel identifier.
func (p *Processor) Kernel() kernel.ID { return p.pair.ID }

// ProcessTraces runs the forward conditioning stages on one channel's
// matrix in place: filtering when enabled, then muting when enabled.
// With both disabled the matrix passes through untouched. Observed and
// synthetic data go through this identically.
func (p *Processor) ProcessTraces(m *trace.Matrix, h *trace.Header) error {
	if p.cfg.Bandpass {
		band := signal.Band{Lo: p.cfg.FreqLo, Hi: p.cfg.FreqHi}
		if err := signal.Filter(m, h, band, signal.Forward); err != nil {
			return fmt.Errorf("forward filter: %w", err)
		}
	}
	if p.cfg.Mute {
		signal.Mute(m, h, p.cfg.MuteSlope, p.cfg.MuteConst, false)
	}
	return nil
}

// PrepareEvalGrad runs one full gradient-preparation call under path:
// load, condition, write the residual artifact, generate and save the
// adjoint gather, and record an optional run summary. A failure before
// an artifact is written leaves nothing behind.
func (p *Processor) PrepareEvalGrad(path string) error {
	start := p.clock.Now()

	obs, h, err := p.load(joinDir(path, p.cfg.ObsDir))
	if err != nil {
		return fmt.Errorf("load observed: %w", err)
	}
	syn, _, err := p.load(joinDir(path, p.cfg.SynDir))
	if err != nil {
		return fmt.Errorf("load synthetic: %w", err)
	}
	if !obs.SameChannels(syn) {
		return fmt.Errorf("observed and synthetic gathers carry different channel sets")
	}

	if err := p.conditionGathers(h, obs, syn); err != nil {
		return err
	}

	residuals, err := p.writeResiduals(path, syn, obs, h)
	if err != nil {
		return fmt.Errorf("write residuals: %w", err)
	}

	if err := p.generateAdjointTraces(syn, obs, h); err != nil {
		return fmt.Errorf("generate adjoint traces: %w", err)
	}
	if err := p.save(joinDir(path, p.cfg.AdjDir), syn, h); err != nil {
		return fmt.Errorf("save adjoint traces: %w", err)
	}

	p.recordRun(path, residuals, h, p.clock.Since(start))
	diagf("prepare_eval_grad complete: path=%s nr=%d channels=%d", path, h.Nr, len(p.cfg.Channels))
	return nil
}

// PrepareApplyHess prepares the adjoint sources of a Hessian-vector
// application: the trial-model synthetics under LcgDir play the role of
// the synthetic data, the reference synthetics under SynDir the role of
// the observations. No residual artifact is written.
func (p *Processor) PrepareApplyHess(path string) error {
	ref, h, err := p.load(joinDir(path, p.cfg.SynDir))
	if err != nil {
		return fmt.Errorf("load reference synthetics: %w", err)
	}
	trial, _, err := p.load(joinDir(path, p.cfg.LcgDir))
	if err != nil {
		return fmt.Errorf("load trial synthetics: %w", err)
	}
	if !ref.SameChannels(trial) {
		return fmt.Errorf("reference and trial gathers carry different channel sets")
	}

	if err := p.conditionGathers(h, ref, trial); err != nil {
		return err
	}
	if err := p.generateAdjointTraces(trial, ref, h); err != nil {
		return fmt.Errorf("generate adjoint traces: %w", err)
	}
	if err := p.save(joinDir(path, p.cfg.AdjDir), trial, h); err != nil {
		return fmt.Errorf("save adjoint traces: %w", err)
	}
	diagf("prepare_apply_hess complete: path=%s", path)
	return nil
}

// InitializeAdjointTraces writes an all-zero adjoint gather sized from
// the observed data, so a solver always finds a complete adjoint trace
// set even before the first gradient evaluation.
func (p *Processor) InitializeAdjointTraces(path string) error {
	_, h, err := p.load(joinDir(path, p.cfg.ObsDir))
	if err != nil {
		return fmt.Errorf("load observed: %w", err)
	}

	zeros := make(trace.Gather, len(p.cfg.Channels))
	for _, ch := range p.cfg.Channels {
		zeros[ch] = trace.NewMatrix(h.Nt, h.Nr)
	}
	if err := p.save(joinDir(path, p.cfg.AdjDir), zeros, h); err != nil {
		return fmt.Errorf("save zero adjoint traces: %w", err)
	}
	diagf("initialized zero adjoint traces: path=%s nt=%d nr=%d", path, h.Nt, h.Nr)
	return nil
}

// load reads every configured channel from dir and reconciles the
// per-channel headers into the canonical one.
func (p *Processor) load(dir string) (trace.Gather, *trace.Header, error) {
	gather := make(trace.Gather, len(p.cfg.Channels))
	headers := make(map[string]*trace.Header, len(p.cfg.Channels))
	for _, ch := range p.cfg.Channels {
		m, h, err := p.codec.Read(p.fsys, dir, ch)
		if err != nil {
			return nil, nil, fmt.Errorf("channel %q: %w", ch, err)
		}
		gather[ch] = m
		headers[ch] = h
	}

	want := trace.Expect{Dt: p.cfg.Dt, Nt: p.cfg.Nt, Nr: p.cfg.Nr}
	h, warnings, err := trace.ReconcileHeaders(headers, p.cfg.Channels, want)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		opsf("%s", w)
	}
	return gather, h, nil
}

// save writes every configured channel of the gather to dir.
func (p *Processor) save(dir string, gather trace.Gather, h *trace.Header) error {
	if err := p.fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, ch := range p.cfg.Channels {
		m, ok := gather[ch]
		if !ok {
			return fmt.Errorf("channel %q: %w", ch, trace.ErrMissingChannel)
		}
		if err := p.codec.Write(p.fsys, dir, ch, m, h); err != nil {
			return fmt.Errorf("channel %q: %w", ch, err)
		}
	}
	return nil
}

// conditionGathers runs forward conditioning on both gathers of a call,
// channel by channel, against the shared canonical header.
func (p *Processor) conditionGathers(h *trace.Header, gathers ...trace.Gather) error {
	for _, g := range gathers {
		for _, ch := range p.cfg.Channels {
			m, ok := g[ch]
			if !ok {
				return fmt.Errorf("channel %q: %w", ch, trace.ErrMissingChannel)
			}
			if err := p.ProcessTraces(m, h); err != nil {
				return fmt.Errorf("channel %q: %w", ch, err)
			}
		}
	}
	return nil
}

// generateAdjointTraces replaces each synthetic column with the adjoint
// kernel's output, reapplies the filter in reverse over the whole matrix,
// and, when enabled, divides each receiver's trace by the L2 norm of its
// observed counterpart. Zero-norm receivers keep their raw adjoint trace;
// dividing there would only manufacture NaNs.
func (p *Processor) generateAdjointTraces(syn, obs trace.Gather, h *trace.Header) error {
	for _, ch := range p.cfg.Channels {
		s, d := syn[ch], obs[ch]
		for ir := 0; ir < h.Nr; ir++ {
			adj := p.pair.Adjoint(s.Trace(ir), d.Trace(ir), h.Nt, h.Dt)
			s.SetTrace(ir, adj)
			tracef("adjoint channel=%s receiver=%d", ch, ir)
		}

		if p.cfg.Bandpass {
			band := signal.Band{Lo: p.cfg.FreqLo, Hi: p.cfg.FreqHi}
			if err := signal.Filter(s, h, band, signal.Reverse); err != nil {
				return fmt.Errorf("reverse filter channel %q: %w", ch, err)
			}
		}

		if p.cfg.Normalize {
			for ir := 0; ir < h.Nr; ir++ {
				w := l2Norm(d.Trace(ir))
				if w == 0 {
					opsf("normalize: observed trace is all-zero at channel=%s receiver=%d; leaving adjoint unnormalized", ch, ir)
					continue
				}
				col := s.Trace(ir)
				for it := range col {
					col[it] /= w
				}
			}
		}
	}
	return nil
}

func (p *Processor) recordRun(path string, residuals map[string][]float64, h *trace.Header, elapsed time.Duration) {
	if p.store == nil {
		return
	}
	summary := RunSummary{
		ID:       uuid.NewString(),
		Path:     path,
		Kernel:   p.pair.ID.String(),
		Channels: p.cfg.Channels,
		Duration: elapsed,
		Stats:    summarizeResiduals(p.cfg.Channels, residuals),
	}
	if err := p.store.RecordRun(summary); err != nil {
		opsf("record run summary: %v", err)
	}
}

func l2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func joinDir(path, dir string) string {
	if path == "" || path == "." {
		return dir
	}
	return path + "/" + dir
}
