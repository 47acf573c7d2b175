package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lapwatch/lapwatch-go/pkg/log"
)

func TestCollectStats(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents(ts))

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("expected 5 events, got %d", stats.TotalEvents)
	}
	if stats.EventsByKind[log.KindLapped] != 1 {
		t.Errorf("expected 1 LAPPED event, got %d", stats.EventsByKind[log.KindLapped])
	}
	if stats.ErrorsByKind[log.ErrorKindInvalidState] != 1 {
		t.Errorf("expected 1 INVALID_STATE error, got %d", stats.ErrorsByKind[log.ErrorKindInvalidState])
	}
	if len(stats.Registries) != 1 {
		t.Errorf("expected 1 registry, got %d", len(stats.Registries))
	}
	if got := stats.TimeRange.End.Sub(stats.TimeRange.Start); got != 3*time.Second {
		t.Errorf("expected 3s range, got %v", got)
	}

	sw, ok := stats.Stopwatches["build"]
	if !ok {
		t.Fatal("expected stats for stopwatch build")
	}
	if sw.Laps != 2 {
		t.Errorf("expected 2 laps, got %d", sw.Laps)
	}
	if sw.Total != 1500*time.Millisecond {
		t.Errorf("expected total 1.5s, got %v", sw.Total)
	}
	if sw.Mean() != 750*time.Millisecond {
		t.Errorf("expected mean 750ms, got %v", sw.Mean())
	}
	if sw.Fastest != 500*time.Millisecond || sw.Slowest != time.Second {
		t.Errorf("unexpected min/max: %v / %v", sw.Fastest, sw.Slowest)
	}
	if sw.Errors != 1 {
		t.Errorf("expected 1 error, got %d", sw.Errors)
	}
}

func TestCollectStatsCountsResets(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, RegistryID: "r", StopwatchID: "a", Kind: log.KindCreated},
		{Timestamp: ts, RegistryID: "r", StopwatchID: "a", Kind: log.KindReset,
			State: &log.StateChangeEvent{OldState: "STOPPED", NewState: "STOPPED"}},
		{Timestamp: ts, RegistryID: "r", Kind: log.KindError,
			Error: &log.ErrorEventData{Kind: log.ErrorKindInvalidArgument, Op: "create"}},
	}
	path := createTestLogFile(t, events)

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.Stopwatches["a"].Resets != 1 {
		t.Errorf("expected 1 reset, got %d", stats.Stopwatches["a"].Resets)
	}
	if stats.Stopwatches["a"].Mean() != 0 {
		t.Error("mean of no laps should be zero")
	}
	// Events without a stopwatch id are counted but not attributed
	if len(stats.Stopwatches) != 1 {
		t.Errorf("expected 1 stopwatch, got %d", len(stats.Stopwatches))
	}
	if stats.ErrorsByKind[log.ErrorKindInvalidArgument] != 1 {
		t.Error("expected INVALID_ARGUMENT error to be counted")
	}
}

func TestRunStatsOutput(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents(ts))

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Total Events: 5",
		"LAPPED:",
		"INVALID_STATE:",
		"build: 5 events, 2 laps, total 1.500 s, mean 750 ms, min 500 ms, max 1.000 s, 1 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
