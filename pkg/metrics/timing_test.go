package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTimingMetric_Record(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")

	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	stats := m.Stats()
	if stats.Count != 2 {
		t.Fatalf("expected count 2, got %d", stats.Count)
	}
	if stats.MinMs != 2 || stats.MaxMs != 4 {
		t.Errorf("expected min 2 / max 4, got %v / %v", stats.MinMs, stats.MaxMs)
	}
	if stats.AvgMs != 3 {
		t.Errorf("expected avg 3, got %v", stats.AvgMs)
	}

	m.Reset()
	if m.Count() != 0 {
		t.Errorf("expected reset count 0, got %d", m.Count())
	}
}

func TestTimer_Disabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	if m.Count() != 0 {
		t.Errorf("expected no recording while disabled, got %d", m.Count())
	}
}

func TestWriteJSON(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	PackLayout.Record(time.Millisecond)

	var buf bytes.Buffer
	if err := WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"pack_layout"`) {
		t.Errorf("expected pack_layout in output, got %s", out)
	}
	if strings.Contains(out, `"svg_render"`) {
		t.Errorf("metrics without data should be omitted, got %s", out)
	}
}
