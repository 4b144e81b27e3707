package trace

import (
	"errors"
	"fmt"
)

// Header carries the acquisition metadata shared by every channel of a
// gather. One header governs all channels and both the observed and
// synthetic matrices of a pipeline call.
type Header struct {
	Dt float64 // sample interval, seconds
	Nt int     // samples per trace
	Nr int     // receiver count

	// Geometry consumed by the mute stage. Rx/Rz are per-receiver
	// coordinates, Sx/Sz the source position, Dx the uniform receiver
	// spacing used when explicit coordinates are absent.
	Sx, Sz float64
	Rx, Rz []float64
	Dx     float64
}

// Clone returns a deep copy, including geometry slices.
func (h *Header) Clone() *Header {
	c := *h
	if h.Rx != nil {
		c.Rx = append([]float64(nil), h.Rx...)
	}
	if h.Rz != nil {
		c.Rz = append([]float64(nil), h.Rz...)
	}
	return &c
}

// Expect holds configured metadata expectations checked during header
// reconciliation. Zero values mean "not configured".
type Expect struct {
	Dt float64
	Nt int
	Nr int
}

// Warning reports a non-fatal metadata mismatch found while reconciling
// headers. Processing continues with the canonical header's own values
// except for the sample interval, which a configured expectation forces.
type Warning struct {
	Channel string // disagreeing channel; empty when against configuration
	Field   string // "dt", "nt" or "nr"
	Detail  string
}

func (w Warning) String() string {
	if w.Channel == "" {
		return fmt.Sprintf("header %s: %s", w.Field, w.Detail)
	}
	return fmt.Sprintf("header %s (channel %s): %s", w.Field, w.Channel, w.Detail)
}

// ErrEmptyGather is returned when a reconciliation or pipeline call is
// handed an empty channel set.
var ErrEmptyGather = errors.New("empty channel set")

// ErrMissingChannel is returned when a configured channel has no header
// or matrix in the container being processed.
var ErrMissingChannel = errors.New("channel missing from container")

// ReconcileHeaders selects the canonical header for a gather and checks it
// against configured expectations. The canonical header is the one
// belonging to the first channel in the configured order; relying on map
// iteration order is exactly the ambiguity this function exists to remove.
//
// A configured sample interval that disagrees with the header silently
// overwrites it; metadata is forced, no samples are resampled. Configured
// sample or receiver counts that disagree only produce warnings, as do
// other channels whose headers disagree with the canonical one. The input
// headers are never mutated.
func ReconcileHeaders(headers map[string]*Header, channels []string, want Expect) (*Header, []Warning, error) {
	if len(channels) == 0 || len(headers) == 0 {
		return nil, nil, ErrEmptyGather
	}
	first, ok := headers[channels[0]]
	if !ok {
		return nil, nil, fmt.Errorf("canonical channel %q: %w", channels[0], ErrMissingChannel)
	}

	h := first.Clone()
	var warnings []Warning

	if want.Dt > 0 && h.Dt != want.Dt {
		h.Dt = want.Dt
	}
	if want.Nt > 0 && h.Nt != want.Nt {
		warnings = append(warnings, Warning{
			Field:  "nt",
			Detail: fmt.Sprintf("header has %d samples, configuration expects %d; keeping %d", h.Nt, want.Nt, h.Nt),
		})
	}
	if want.Nr > 0 && h.Nr != want.Nr {
		warnings = append(warnings, Warning{
			Field:  "nr",
			Detail: fmt.Sprintf("header has %d receivers, configuration expects %d; keeping %d", h.Nr, want.Nr, h.Nr),
		})
	}

	// Cross-channel consistency: every channel shares one header by
	// contract, so disagreement is a data-quality condition, not an error.
	for _, ch := range channels[1:] {
		o, ok := headers[ch]
		if !ok {
			return nil, nil, fmt.Errorf("channel %q: %w", ch, ErrMissingChannel)
		}
		if o.Dt != first.Dt {
			warnings = append(warnings, Warning{
				Channel: ch,
				Field:   "dt",
				Detail:  fmt.Sprintf("%g s differs from canonical %g s", o.Dt, first.Dt),
			})
		}
		if o.Nt != first.Nt {
			warnings = append(warnings, Warning{
				Channel: ch,
				Field:   "nt",
				Detail:  fmt.Sprintf("%d samples differs from canonical %d", o.Nt, first.Nt),
			})
		}
		if o.Nr != first.Nr {
			warnings = append(warnings, Warning{
				Channel: ch,
				Field:   "nr",
				Detail:  fmt.Sprintf("%d receivers differs from canonical %d", o.Nr, first.Nr),
			})
		}
	}

	return h, warnings, nil
}
