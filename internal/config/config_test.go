package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultFillsOptionalParameters(t *testing.T) {
	c := Default()

	if c.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", c.Format, DefaultFormat)
	}
	if c.Misfit != DefaultMisfit {
		t.Errorf("Misfit = %q, want %q", c.Misfit, DefaultMisfit)
	}
	if !c.Normalize {
		t.Error("Normalize should default to enabled")
	}
	if c.Mute || c.Bandpass {
		t.Error("Mute and Bandpass should default to disabled")
	}
	if c.MuteSlope != 0 || c.MuteConst != 0 || c.FreqLo != 0 || c.FreqHi != 0 {
		t.Error("numeric stage parameters should default to zero")
	}
	if c.ObsDir != "traces/obs" || c.SynDir != "traces/syn" || c.AdjDir != "traces/adj" {
		t.Errorf("unexpected trace directory defaults: %q %q %q", c.ObsDir, c.SynDir, c.AdjDir)
	}
}

func TestValidateRequiredParameters(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		missing string
	}{
		{"missing format", func(c *Config) { c.Format = "" }, "FORMAT"},
		{"missing channels", func(c *Config) { c.Channels = nil }, "CHANNELS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Channels = []string{"x", "z"}
			tt.mutate(&c)

			err := c.Validate()
			var mpe *MissingParameterError
			if !errors.As(err, &mpe) {
				t.Fatalf("Validate() = %v, want MissingParameterError", err)
			}
			if mpe.Parameter != tt.missing {
				t.Errorf("missing parameter = %q, want %q", mpe.Parameter, tt.missing)
			}
		})
	}
}

func TestValidateRejectsBadChannelSets(t *testing.T) {
	c := Default()
	c.Channels = []string{"x", "x"}
	if err := c.Validate(); err == nil {
		t.Error("duplicate channel tokens should fail validation")
	}

	c.Channels = []string{"x", ""}
	if err := c.Validate(); err == nil {
		t.Error("empty channel token should fail validation")
	}
}

func TestValidateRejectsNegativeFrequencies(t *testing.T) {
	c := Default()
	c.Channels = []string{"z"}
	c.FreqLo = -1
	if err := c.Validate(); err == nil {
		t.Error("negative corner frequency should fail validation")
	}
}

func TestParseChannels(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"xz", []string{"x", "z"}},
		{"z", []string{"z"}},
		{" xyz ", []string{"x", "y", "z"}},
		{"", nil},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseChannels(tt.in)); diff != "" {
			t.Errorf("ParseChannels(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
