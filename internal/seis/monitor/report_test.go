package monitor

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/halfspace-data/seisprep/internal/db"
	"github.com/halfspace-data/seisprep/internal/seis/pipeline"
)

func testRuns() []db.RunRecord {
	return []db.RunRecord{
		{
			ID: "4fe2a1c9-newest", Path: "scratch/solver/000001", Kernel: "waveform",
			Channels: []string{"x", "z"}, DurationMs: 120, CreatedAt: time.Now(),
			Stats: []pipeline.ChannelStats{
				{Channel: "x", Nr: 8, Sum: 1.6, Mean: 0.2, Max: 0.4},
				{Channel: "z", Nr: 8, Sum: 2.4, Mean: 0.3, Max: 0.5},
			},
		},
		{
			ID: "9ab03377-older", Path: "scratch/solver/000000", Kernel: "waveform",
			Channels: []string{"x", "z"}, DurationMs: 95, CreatedAt: time.Now().Add(-time.Hour),
			Stats: []pipeline.ChannelStats{
				{Channel: "x", Nr: 8, Sum: 2.0, Mean: 0.25, Max: 0.45},
				{Channel: "z", Nr: 8, Sum: 2.8, Mean: 0.35, Max: 0.55},
			},
		},
	}
}

func TestRenderRunReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRunReport(&buf, testRuns()); err != nil {
		t.Fatalf("RenderRunReport: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"seisprep run report", "Mean residual by run", "Latest run 4fe2a1c9"} {
		if !strings.Contains(html, want) {
			t.Errorf("report does not contain %q", want)
		}
	}
}

func TestRenderRunReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRunReport(&buf, nil); err == nil {
		t.Error("an empty run list should fail rather than render a blank page")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("short input should pass through, got %q", got)
	}
}
