// Package config holds the immutable configuration snapshot consumed by the
// preprocessing pipeline. A Config is constructed once per invocation (by the
// CLI or a test) and passed by value; no component reaches into ambient state.
package config

import (
	"fmt"
	"strings"
)

// Defaults for the optional parameters of the configuration surface.
const (
	DefaultFormat = "ascii"
	DefaultMisfit = "wav"
	DefaultObsDir = "traces/obs"
	DefaultSynDir = "traces/syn"
	DefaultAdjDir = "traces/adj"
	DefaultLcgDir = "traces/lcg"
)

// Config is the snapshot of every parameter the pipeline consults. Format and
// Channels are required; everything else has a working default. Zero values in
// Dt/Nt/Nr mean "no configured expectation".
type Config struct {
	Format   string   // trace I/O format name, must be registered as reader and writer
	Channels []string // ordered single-token channel set, e.g. ["x", "z"]

	Misfit    string // misfit/adjoint kernel name, case-insensitive
	Normalize bool   // divide adjoint traces by the observed trace norm

	Mute      bool
	MuteSlope float64 // moveout slope, s per unit offset
	MuteConst float64 // moveout intercept, s

	Bandpass bool
	FreqLo   float64 // low corner, Hz; 0 = open
	FreqHi   float64 // high corner, Hz; 0 = open

	// Expected-metadata overrides checked during header reconciliation.
	Dt float64
	Nt int
	Nr int

	// Trace directory prefixes, relative to the working path of a call.
	ObsDir string
	SynDir string
	AdjDir string
	LcgDir string
}

// Default returns a Config with every optional parameter at its default.
// Format and Channels are left empty and must be filled in by the caller.
func Default() Config {
	return Config{
		Format:    DefaultFormat,
		Misfit:    DefaultMisfit,
		Normalize: true,
		ObsDir:    DefaultObsDir,
		SynDir:    DefaultSynDir,
		AdjDir:    DefaultAdjDir,
		LcgDir:    DefaultLcgDir,
	}
}

// MissingParameterError reports a required configuration key that was not
// provided. It is fatal: the pipeline refuses to construct without it.
type MissingParameterError struct {
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required parameter %s is not set", e.Parameter)
}

// Validate checks the required keys and the internal consistency of the
// optional ones. It does not verify that Format names a registered codec;
// that check belongs to the component owning the registry.
func (c Config) Validate() error {
	if c.Format == "" {
		return &MissingParameterError{Parameter: "FORMAT"}
	}
	if len(c.Channels) == 0 {
		return &MissingParameterError{Parameter: "CHANNELS"}
	}
	seen := make(map[string]bool, len(c.Channels))
	for _, ch := range c.Channels {
		if ch == "" {
			return fmt.Errorf("empty channel token in CHANNELS")
		}
		if seen[ch] {
			return fmt.Errorf("duplicate channel token %q in CHANNELS", ch)
		}
		seen[ch] = true
	}
	if c.FreqLo < 0 || c.FreqHi < 0 {
		return fmt.Errorf("negative corner frequency: lo=%g hi=%g", c.FreqLo, c.FreqHi)
	}
	if c.Dt < 0 {
		return fmt.Errorf("negative expected sample interval %g", c.Dt)
	}
	return nil
}

// ParseChannels splits a CHANNELS token string into the ordered channel set:
// each character is one channel token, matching the historical configuration
// surface ("xz" selects channels x and z, in that order).
func ParseChannels(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	channels := make([]string, 0, len(s))
	for _, r := range s {
		channels = append(channels, string(r))
	}
	return channels
}
