package inspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lapwatch/lapwatch-go/pkg/stopwatch"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestInspector(t *testing.T) (*Inspector, *stopwatch.Registry) {
	t.Helper()

	clock := &stepClock{now: time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)}
	reg := stopwatch.NewRegistry(stopwatch.WithClock(clock))

	a, err := reg.Create("fetch")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := reg.Create("parse"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_ = a.Start()
	clock.Advance(80 * time.Millisecond)
	_ = a.Lap()
	clock.Advance(20 * time.Millisecond)
	_ = a.Stop()

	insp := NewInspector(reg)
	insp.now = func() time.Time { return time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC) }
	return insp, reg
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInspectorReport(t *testing.T) {
	insp, reg := newTestInspector(t)

	report := insp.Report()
	if report.RegistryID != reg.ID() {
		t.Errorf("RegistryID = %q, want %q", report.RegistryID, reg.ID())
	}
	if len(report.Stopwatches) != 2 {
		t.Fatalf("got %d stopwatches, want 2", len(report.Stopwatches))
	}

	fetch := report.Stopwatches[0]
	if fetch.ID != "fetch" || fetch.State != "STOPPED" {
		t.Errorf("fetch = %+v", fetch)
	}
	if len(fetch.LapsMs) != 2 || fetch.LapsMs[0] != 80 || fetch.LapsMs[1] != 20 {
		t.Errorf("fetch.LapsMs = %v, want [80 20]", fetch.LapsMs)
	}
	if fetch.TotalMs != 100 {
		t.Errorf("fetch.TotalMs = %d, want 100", fetch.TotalMs)
	}

	if report.Stopwatches[1].LapsMs == nil {
		t.Error("LapsMs should be empty, not nil, so JSON renders []")
	}
}

func TestInspectorStopwatch(t *testing.T) {
	insp, _ := newTestInspector(t)

	snap, err := insp.Stopwatch("fetch")
	if err != nil {
		t.Fatalf("Stopwatch() error = %v", err)
	}
	if len(snap.Laps) != 2 {
		t.Errorf("got %d laps, want 2", len(snap.Laps))
	}

	if _, err := insp.Stopwatch("missing"); !errors.Is(err, ErrStopwatchNotFound) {
		t.Errorf("Stopwatch(missing) error = %v, want ErrStopwatchNotFound", err)
	}
}

func TestInspectorRenderText(t *testing.T) {
	insp, _ := newTestInspector(t)

	var buf bytes.Buffer
	if err := insp.Render(&buf, FormatText); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "fetch") || !strings.Contains(out, "parse") {
		t.Errorf("text output missing stopwatches:\n%s", out)
	}
}

func TestInspectorRenderJSON(t *testing.T) {
	insp, _ := newTestInspector(t)

	var buf bytes.Buffer
	if err := insp.Render(&buf, FormatJSON); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(got.Stopwatches) != 2 || got.Stopwatches[0].TotalMs != 100 {
		t.Errorf("decoded report = %+v", got)
	}
}

func TestInspectorRenderYAML(t *testing.T) {
	insp, _ := newTestInspector(t)

	var buf bytes.Buffer
	if err := insp.Render(&buf, FormatYAML); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "laps_ms:") {
		t.Errorf("YAML output missing laps_ms:\n%s", out)
	}

	var got Report
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if len(got.Stopwatches) != 2 {
		t.Fatalf("decoded %d stopwatches, want 2", len(got.Stopwatches))
	}
	if got.Stopwatches[0].ID != "fetch" || got.Stopwatches[0].LapsMs[1] != 20 {
		t.Errorf("decoded fetch = %+v", got.Stopwatches[0])
	}
	if !got.GeneratedAt.Equal(time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("GeneratedAt = %v", got.GeneratedAt)
	}
}

func TestInspectorRenderUnknownFormat(t *testing.T) {
	insp, _ := newTestInspector(t)

	err := insp.Render(&bytes.Buffer{}, Format("xml"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Render(xml) error = %v, want ErrUnknownFormat", err)
	}
}
