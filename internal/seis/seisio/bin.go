package seisio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"

	"github.com/halfspace-data/seisprep/internal/fsutil"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// binCodec stores a gather as little-endian binary: a fixed header,
// optional float64 geometry, then float32 samples in receiver-major
// order. Compact enough for large gathers, simple enough to read from
// any language.
type binCodec struct{}

var binMagic = [4]byte{'S', 'P', 'T', 'R'}

const binVersion = 1

type binHeader struct {
	Magic   [4]byte
	Version uint32
	Nt      uint32
	Nr      uint32
	Dt      float64
	Sx      float64
	Sz      float64
	Dx      float64
	Geom    uint8
	_       [7]byte // reserved
}

func (binCodec) Name() string { return "bin" }
func (binCodec) Ext() string  { return "bin" }

func (c binCodec) Write(fsys fsutil.FileSystem, dir, channel string, m *trace.Matrix, h *trace.Header) error {
	nt, nr := m.Dims()
	if h.Nt != nt || h.Nr != nr {
		return fmt.Errorf("bin write: header [%d, %d] does not match matrix [%d, %d]", h.Nt, h.Nr, nt, nr)
	}

	hasGeom := len(h.Rx) == nr && len(h.Rz) == nr
	bh := binHeader{
		Magic:   binMagic,
		Version: binVersion,
		Nt:      uint32(nt),
		Nr:      uint32(nr),
		Dt:      h.Dt,
		Sx:      h.Sx,
		Sz:      h.Sz,
		Dx:      h.Dx,
	}
	if hasGeom {
		bh.Geom = 1
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, bh); err != nil {
		return fmt.Errorf("bin write: header: %w", err)
	}
	if hasGeom {
		if err := binary.Write(&buf, binary.LittleEndian, h.Rx); err != nil {
			return fmt.Errorf("bin write: rx: %w", err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, h.Rz); err != nil {
			return fmt.Errorf("bin write: rz: %w", err)
		}
	}

	samples := make([]float32, nt*nr)
	for ir := 0; ir < nr; ir++ {
		col := m.Trace(ir)
		for it, v := range col {
			samples[ir*nt+it] = float32(v)
		}
	}
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return fmt.Errorf("bin write: samples: %w", err)
	}

	name := filepath.Join(dir, TraceFile(channel, c.Ext()))
	if err := fsys.WriteFile(name, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("bin write %s: %w", name, err)
	}
	diagf("wrote %s: nt=%d nr=%d (%d bytes)", name, nt, nr, buf.Len())
	return nil
}

func (c binCodec) Read(fsys fsutil.FileSystem, dir, channel string) (*trace.Matrix, *trace.Header, error) {
	name := filepath.Join(dir, TraceFile(channel, c.Ext()))
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, nil, fmt.Errorf("bin read %s: %w", name, err)
	}
	r := bytes.NewReader(data)

	var bh binHeader
	if err := binary.Read(r, binary.LittleEndian, &bh); err != nil {
		return nil, nil, fmt.Errorf("bin read %s: header: %w", name, err)
	}
	if bh.Magic != binMagic {
		return nil, nil, fmt.Errorf("bin read %s: bad magic %q", name, bh.Magic)
	}
	if bh.Version != binVersion {
		return nil, nil, fmt.Errorf("bin read %s: unsupported version %d", name, bh.Version)
	}

	h := &trace.Header{
		Dt: bh.Dt,
		Nt: int(bh.Nt),
		Nr: int(bh.Nr),
		Sx: bh.Sx,
		Sz: bh.Sz,
		Dx: bh.Dx,
	}
	if h.Nt <= 0 || h.Nr <= 0 {
		return nil, nil, fmt.Errorf("bin read %s: non-positive shape [%d, %d]", name, h.Nt, h.Nr)
	}

	if bh.Geom == 1 {
		h.Rx = make([]float64, h.Nr)
		h.Rz = make([]float64, h.Nr)
		if err := binary.Read(r, binary.LittleEndian, h.Rx); err != nil {
			return nil, nil, fmt.Errorf("bin read %s: rx: %w", name, err)
		}
		if err := binary.Read(r, binary.LittleEndian, h.Rz); err != nil {
			return nil, nil, fmt.Errorf("bin read %s: rz: %w", name, err)
		}
	}

	samples := make([]float32, h.Nt*h.Nr)
	if err := binary.Read(r, binary.LittleEndian, samples); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			opsf("short read in %s: file truncated", name)
		}
		return nil, nil, fmt.Errorf("bin read %s: samples: %w", name, err)
	}

	m := trace.NewMatrix(h.Nt, h.Nr)
	for ir := 0; ir < h.Nr; ir++ {
		col := m.Trace(ir)
		for it := range col {
			col[it] = float64(samples[ir*h.Nt+it])
		}
	}
	diagf("read %s: nt=%d nr=%d dt=%g", name, h.Nt, h.Nr, h.Dt)
	return m, h, nil
}
