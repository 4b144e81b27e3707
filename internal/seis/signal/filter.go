package signal

import (
	"errors"
	"fmt"
	"math"

	"github.com/halfspace-data/seisprep/internal/seis/trace"
)

// Direction selects whether the filter cascade runs in time order or over
// the time-reversed trace. The reverse direction is used once more when
// constructing adjoint sources, so the pair approximates the adjoint of
// the forward filter.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Band holds the corner frequencies of a filter invocation, in Hz. A zero
// corner leaves that side open: {Lo>0, Hi>0} is a bandpass, {0, Hi} a
// lowpass, {Lo, 0} a highpass. Both zero is a configuration error.
type Band struct {
	Lo float64
	Hi float64
}

// ErrInvalidBand is returned when filtering is requested but neither
// corner frequency is usable.
var ErrInvalidBand = errors.New("filter enabled but no usable corner frequency")

// Mode reports which filter the band selects.
func (b Band) Mode() string {
	switch {
	case b.Lo > 0 && b.Hi > 0:
		return "bandpass"
	case b.Lo > 0:
		return "highpass"
	case b.Hi > 0:
		return "lowpass"
	default:
		return "disabled"
	}
}

// Validate checks the band against the sampling interval. Corners must lie
// inside (0, Nyquist) and a bandpass needs Lo < Hi.
func (b Band) Validate(dt float64) error {
	if b.Lo == 0 && b.Hi == 0 {
		return ErrInvalidBand
	}
	if dt <= 0 {
		return fmt.Errorf("sample interval %g is not positive", dt)
	}
	nyquist := 0.5 / dt
	if b.Lo < 0 || b.Lo >= nyquist {
		return fmt.Errorf("low corner %g Hz outside (0, %g Hz)", b.Lo, nyquist)
	}
	if b.Hi < 0 || b.Hi >= nyquist {
		return fmt.Errorf("high corner %g Hz outside (0, %g Hz)", b.Hi, nyquist)
	}
	if b.Lo > 0 && b.Hi > 0 && b.Lo >= b.Hi {
		return fmt.Errorf("low corner %g Hz not below high corner %g Hz", b.Lo, b.Hi)
	}
	return nil
}

// Filter applies the band's filter to every receiver column of m in place.
// The sample interval comes from the header; no normalization is performed.
func Filter(m *trace.Matrix, h *trace.Header, band Band, dir Direction) error {
	if err := band.Validate(h.Dt); err != nil {
		return err
	}

	var sections []biquad
	if band.Lo > 0 {
		sections = append(sections, butterworthHighpass(band.Lo, h.Dt)...)
	}
	if band.Hi > 0 {
		sections = append(sections, butterworthLowpass(band.Hi, h.Dt)...)
	}

	_, nr := m.Dims()
	for ir := 0; ir < nr; ir++ {
		col := m.Trace(ir)
		if dir == Reverse {
			reverse(col)
		}
		for _, s := range sections {
			s.apply(col)
		}
		if dir == Reverse {
			reverse(col)
		}
	}
	return nil
}

// biquad is one second-order IIR section in direct form II transposed.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

func (s biquad) apply(x []float64) {
	var z1, z2 float64
	for i, v := range x {
		y := s.b0*v + z1
		z1 = s.b1*v - s.a1*y + z2
		z2 = s.b2*v - s.a2*y
		x[i] = y
	}
}

// Q factors of a 4th-order Butterworth response split into two cascaded
// second-order sections.
var butterworthQ = [2]float64{0.54119610, 1.30656296}

func butterworthLowpass(corner, dt float64) []biquad {
	sections := make([]biquad, 0, len(butterworthQ))
	w0 := 2 * math.Pi * corner * dt
	cw, sw := math.Cos(w0), math.Sin(w0)
	for _, q := range butterworthQ {
		alpha := sw / (2 * q)
		a0 := 1 + alpha
		sections = append(sections, biquad{
			b0: (1 - cw) / 2 / a0,
			b1: (1 - cw) / a0,
			b2: (1 - cw) / 2 / a0,
			a1: -2 * cw / a0,
			a2: (1 - alpha) / a0,
		})
	}
	return sections
}

func butterworthHighpass(corner, dt float64) []biquad {
	sections := make([]biquad, 0, len(butterworthQ))
	w0 := 2 * math.Pi * corner * dt
	cw, sw := math.Cos(w0), math.Sin(w0)
	for _, q := range butterworthQ {
		alpha := sw / (2 * q)
		a0 := 1 + alpha
		sections = append(sections, biquad{
			b0: (1 + cw) / 2 / a0,
			b1: -(1 + cw) / a0,
			b2: (1 + cw) / 2 / a0,
			a1: -2 * cw / a0,
			a2: (1 - alpha) / a0,
		})
	}
	return sections
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
