package seisio

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/halfspace-data/seisprep/internal/fsutil"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// asciiCodec stores a gather as plain text: one header line, optional
// geometry lines, then one row per sample with one column per receiver.
// Values are written with full float64 precision so a write/read pair is
// an exact round trip.
type asciiCodec struct{}

func (asciiCodec) Name() string { return "ascii" }
func (asciiCodec) Ext() string  { return "ascii" }

func (c asciiCodec) Write(fsys fsutil.FileSystem, dir, channel string, m *trace.Matrix, h *trace.Header) error {
	nt, nr := m.Dims()
	if h.Nt != nt || h.Nr != nr {
		return fmt.Errorf("ascii write: header [%d, %d] does not match matrix [%d, %d]", h.Nt, h.Nr, nt, nr)
	}

	name := filepath.Join(dir, TraceFile(channel, c.Ext()))
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("ascii write %s: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	hasGeom := len(h.Rx) == nr && len(h.Rz) == nr
	fmt.Fprintf(w, "nt=%d nr=%d dt=%s sx=%s sz=%s dx=%s geom=%d\n",
		nt, nr, ftoa(h.Dt), ftoa(h.Sx), ftoa(h.Sz), ftoa(h.Dx), btoi(hasGeom))
	if hasGeom {
		writeRow(w, h.Rx)
		writeRow(w, h.Rz)
	}

	row := make([]float64, nr)
	for it := 0; it < nt; it++ {
		for ir := 0; ir < nr; ir++ {
			row[ir] = m.At(it, ir)
		}
		writeRow(w, row)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("ascii write %s: %w", name, err)
	}
	diagf("wrote %s: nt=%d nr=%d", name, nt, nr)
	return nil
}

func (c asciiCodec) Read(fsys fsutil.FileSystem, dir, channel string) (*trace.Matrix, *trace.Header, error) {
	name := filepath.Join(dir, TraceFile(channel, c.Ext()))
	f, err := fsys.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("ascii read %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, nil, fmt.Errorf("ascii read %s: missing header line", name)
	}
	h, hasGeom, err := parseHeaderLine(sc.Text())
	if err != nil {
		return nil, nil, fmt.Errorf("ascii read %s: %w", name, err)
	}

	if hasGeom {
		if h.Rx, err = readRow(sc, h.Nr); err != nil {
			return nil, nil, fmt.Errorf("ascii read %s: rx: %w", name, err)
		}
		if h.Rz, err = readRow(sc, h.Nr); err != nil {
			return nil, nil, fmt.Errorf("ascii read %s: rz: %w", name, err)
		}
	}

	m := trace.NewMatrix(h.Nt, h.Nr)
	for it := 0; it < h.Nt; it++ {
		row, err := readRow(sc, h.Nr)
		if err != nil {
			return nil, nil, fmt.Errorf("ascii read %s: sample row %d: %w", name, it, err)
		}
		for ir := 0; ir < h.Nr; ir++ {
			m.Set(it, ir, row[ir])
		}
	}
	diagf("read %s: nt=%d nr=%d dt=%g", name, h.Nt, h.Nr, h.Dt)
	return m, h, nil
}

func parseHeaderLine(line string) (*trace.Header, bool, error) {
	h := &trace.Header{}
	hasGeom := false
	for _, field := range strings.Fields(line) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return nil, false, fmt.Errorf("malformed header field %q", field)
		}
		var err error
		switch key {
		case "nt":
			h.Nt, err = strconv.Atoi(val)
		case "nr":
			h.Nr, err = strconv.Atoi(val)
		case "dt":
			h.Dt, err = strconv.ParseFloat(val, 64)
		case "sx":
			h.Sx, err = strconv.ParseFloat(val, 64)
		case "sz":
			h.Sz, err = strconv.ParseFloat(val, 64)
		case "dx":
			h.Dx, err = strconv.ParseFloat(val, 64)
		case "geom":
			hasGeom = val == "1"
		default:
			// Unknown header fields are tolerated so the format can grow.
			opsf("ignoring unknown header field %q", key)
		}
		if err != nil {
			return nil, false, fmt.Errorf("header field %q: %w", field, err)
		}
	}
	if h.Nt <= 0 || h.Nr <= 0 {
		return nil, false, fmt.Errorf("non-positive shape [%d, %d]", h.Nt, h.Nr)
	}
	return h, hasGeom, nil
}

func writeRow(w *bufio.Writer, row []float64) {
	for i, v := range row {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(ftoa(v))
	}
	w.WriteByte('\n')
}

func readRow(sc *bufio.Scanner, n int) ([]float64, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected end of file")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) != n {
		return nil, fmt.Errorf("got %d values, want %d", len(fields), n)
	}
	row := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", field, err)
		}
		row[i] = v
	}
	return row, nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
