package seisio

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/halfspace-data/seisprep/internal/fsutil"
	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

func testGather() (*trace.Matrix, *trace.Header) {
	const (
		nt = 5
		nr = 3
	)
	m := trace.NewMatrix(nt, nr)
	for ir := 0; ir < nr; ir++ {
		for it := 0; it < nt; it++ {
			m.Set(it, ir, float64(ir*nt+it)*0.25-1.5)
		}
	}
	h := &trace.Header{
		Dt: 0.004, Nt: nt, Nr: nr,
		Sx: 12.5, Sz: 0.5, Dx: 25,
		Rx: []float64{0, 25, 50},
		Rz: []float64{1, 1, 1},
	}
	return m, h
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		c, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, c.Name())
		}
	}

	_, err := Lookup("su")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Lookup(su) error = %v, want ErrUnknownFormat", err)
	}
}

func TestTraceFile(t *testing.T) {
	if got := TraceFile("x", "ascii"); got != "Ux.ascii" {
		t.Errorf("TraceFile = %q, want Ux.ascii", got)
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	m, h := testGather()

	c, err := Lookup("ascii")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Write(fsys, "traces/obs", "x", m, h); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotM, gotH, err := c.Read(fsys, "traces/obs", "x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	// Full float64 precision text makes the trip exact.
	if !gotM.Equal(m) {
		t.Error("samples did not survive the ascii round trip")
	}
	if diff := cmp.Diff(h, gotH); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestASCIIWithoutGeometry(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	m, h := testGather()
	h.Rx, h.Rz = nil, nil

	c, _ := Lookup("ascii")
	if err := c.Write(fsys, "d", "z", m, h); err != nil {
		t.Fatalf("Write: %v", err)
	}
	gotM, gotH, err := c.Read(fsys, "d", "z")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !gotM.Equal(m) {
		t.Error("samples did not survive without geometry")
	}
	if gotH.Rx != nil || gotH.Rz != nil {
		t.Errorf("geometry appeared from nowhere: rx=%v rz=%v", gotH.Rx, gotH.Rz)
	}
}

func TestASCIIShapeMismatch(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	m, h := testGather()
	h.Nr = 99

	c, _ := Lookup("ascii")
	if err := c.Write(fsys, "d", "x", m, h); err == nil {
		t.Error("header/matrix shape mismatch should fail the write")
	}
}

func TestBinRoundTrip(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()

	const (
		nt = 5
		nr = 3
	)
	// Values representable in float32, so the trip is exact despite the
	// narrowed sample storage.
	m := trace.NewMatrix(nt, nr)
	for ir := 0; ir < nr; ir++ {
		for it := 0; it < nt; it++ {
			m.Set(it, ir, float64(ir*nt+it)*0.25-1.5)
		}
	}
	h := &trace.Header{
		Dt: 0.004, Nt: nt, Nr: nr,
		Sx: 12.5, Sz: 0.5, Dx: 25,
		Rx: []float64{0, 25, 50},
		Rz: []float64{1, 1, 1},
	}

	c, err := Lookup("bin")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Write(fsys, "traces/syn", "z", m, h); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotM, gotH, err := c.Read(fsys, "traces/syn", "z")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !gotM.Equal(m) {
		t.Error("float32-representable samples did not survive the bin round trip")
	}
	// Header fields are stored as float64 and must be exact.
	if diff := cmp.Diff(h, gotH); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestBinNarrowsToFloat32(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()

	m := trace.NewMatrix(1, 1)
	m.Set(0, 0, math.Pi)
	h := &trace.Header{Dt: 0.004, Nt: 1, Nr: 1}

	c, _ := Lookup("bin")
	if err := c.Write(fsys, "d", "x", m, h); err != nil {
		t.Fatalf("Write: %v", err)
	}
	gotM, _, err := c.Read(fsys, "d", "x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, want := gotM.At(0, 0), float64(float32(math.Pi)); got != want {
		t.Errorf("sample = %v, want float32-rounded %v", got, want)
	}
}

func TestBinRejectsCorruptHeader(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	if err := fsys.WriteFile("d/Ux.bin", []byte("not a trace file at all"), 0644); err != nil {
		t.Fatal(err)
	}

	c, _ := Lookup("bin")
	if _, _, err := c.Read(fsys, "d", "x"); err == nil {
		t.Error("corrupt magic should fail the read")
	}
}

func TestBinRejectsTruncatedSamples(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	m, h := testGather()

	c, _ := Lookup("bin")
	if err := c.Write(fsys, "d", "x", m, h); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := fsys.ReadFile("d/Ux.bin")
	if err != nil {
		t.Fatal(err)
	}
	if err := fsys.WriteFile("d/Ux.bin", data[:len(data)-10], 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Read(fsys, "d", "x"); err == nil {
		t.Error("truncated sample block should fail the read")
	}
}

func TestReadMissingFile(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	for _, name := range Names() {
		c, _ := Lookup(name)
		if _, _, err := c.Read(fsys, "nowhere", "x"); err == nil {
			t.Errorf("%s: reading a missing file should fail", name)
		}
	}
}
