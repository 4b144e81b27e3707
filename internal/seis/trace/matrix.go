package trace

import "fmt"

// Matrix is a dense block of waveform samples for one channel, shape
// [nt, nr]: nt samples per trace, nr receiver traces. Storage is
// receiver-contiguous, so one receiver's full trace is a single slice of
// the backing array and per-receiver stages never copy.
type Matrix struct {
	nt, nr int
	data   []float64
}

// NewMatrix allocates a zeroed nt-by-nr matrix.
func NewMatrix(nt, nr int) *Matrix {
	if nt < 0 || nr < 0 {
		panic(fmt.Sprintf("trace: invalid matrix shape [%d, %d]", nt, nr))
	}
	return &Matrix{nt: nt, nr: nr, data: make([]float64, nt*nr)}
}

// NewMatrixFrom builds a matrix from receiver-contiguous backing data.
// The slice is used directly, not copied; len(data) must equal nt*nr.
func NewMatrixFrom(nt, nr int, data []float64) (*Matrix, error) {
	if nt < 0 || nr < 0 || len(data) != nt*nr {
		return nil, fmt.Errorf("trace: data length %d does not match shape [%d, %d]", len(data), nt, nr)
	}
	return &Matrix{nt: nt, nr: nr, data: data}, nil
}

// Dims returns the sample count and receiver count.
func (m *Matrix) Dims() (nt, nr int) { return m.nt, m.nr }

// Nt returns the number of samples per trace.
func (m *Matrix) Nt() int { return m.nt }

// Nr returns the number of receiver traces.
func (m *Matrix) Nr() int { return m.nr }

// At returns the sample at time index it of receiver ir.
func (m *Matrix) At(it, ir int) float64 { return m.data[ir*m.nt+it] }

// Set stores v at time index it of receiver ir.
func (m *Matrix) Set(it, ir int, v float64) { m.data[ir*m.nt+it] = v }

// Trace returns receiver ir's samples as a zero-copy slice of the backing
// array. Writes through the slice mutate the matrix.
func (m *Matrix) Trace(ir int) []float64 {
	return m.data[ir*m.nt : (ir+1)*m.nt]
}

// SetTrace copies src into receiver ir's column. Extra samples in src are
// ignored; a short src leaves the tail untouched.
func (m *Matrix) SetTrace(ir int, src []float64) {
	copy(m.Trace(ir), src)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{nt: m.nt, nr: m.nr, data: make([]float64, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Fill sets every sample to v.
func (m *Matrix) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Equal reports whether two matrices have the same shape and identical
// samples. NaN samples never compare equal.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.nt != o.nt || m.nr != o.nr {
		return false
	}
	for i, v := range m.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}

// Gather maps channel tokens to their sample matrices. All gathers used
// together in one pipeline call must carry an identical channel-key set.
type Gather map[string]*Matrix

// SameChannels reports whether g and o hold exactly the same channel keys.
func (g Gather) SameChannels(o Gather) bool {
	if len(g) != len(o) {
		return false
	}
	for ch := range g {
		if _, ok := o[ch]; !ok {
			return false
		}
	}
	return true
}

// HasChannels reports whether g holds a matrix for every listed channel.
func (g Gather) HasChannels(channels []string) bool {
	for _, ch := range channels {
		if _, ok := g[ch]; !ok {
			return false
		}
	}
	return true
}

// Clone deep-copies the gather and every matrix in it.
func (g Gather) Clone() Gather {
	c := make(Gather, len(g))
	for ch, m := range g {
		c[ch] = m.Clone()
	}
	return c
}
