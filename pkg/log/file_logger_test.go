package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.swlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.swlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp:   time.Now(),
		RegistryID:  "reg-123",
		StopwatchID: "render",
		Kind:        KindStopped,
		State:       &StateChangeEvent{OldState: "RUNNING", NewState: "STOPPED"},
		Lap:         &LapEvent{Index: 1, Duration: 42 * time.Millisecond},
	}

	logger.Log(event)
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("log file is empty")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}

	if decoded.StopwatchID != event.StopwatchID {
		t.Errorf("StopwatchID: got %q, want %q", decoded.StopwatchID, event.StopwatchID)
	}
	if decoded.Kind != KindStopped {
		t.Errorf("Kind: got %v, want STOPPED", decoded.Kind)
	}
	if decoded.Lap == nil {
		t.Fatal("Lap is nil")
	}
	if decoded.Lap.Duration != 42*time.Millisecond {
		t.Errorf("Lap.Duration: got %v, want 42ms", decoded.Lap.Duration)
	}
	if decoded.State == nil || decoded.State.NewState != "STOPPED" {
		t.Errorf("State: got %+v", decoded.State)
	}
	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, event.Timestamp)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.swlog")

	logger1, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger1.Log(Event{Timestamp: time.Now(), RegistryID: "reg-1", StopwatchID: "a", Kind: KindCreated})
	logger1.Close()

	info1, _ := os.Stat(path)
	size1 := info1.Size()

	logger2, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger second open failed: %v", err)
	}
	logger2.Log(Event{Timestamp: time.Now(), RegistryID: "reg-2", StopwatchID: "b", Kind: KindCreated})
	logger2.Close()

	info2, _ := os.Stat(path)
	size2 := info2.Size()

	if size2 <= size1 {
		t.Errorf("file did not grow: size before=%d, size after=%d", size1, size2)
	}

	events := decodeAll(t, path)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].StopwatchID != "a" {
		t.Errorf("first event StopwatchID: got %q, want %q", events[0].StopwatchID, "a")
	}
	if events[1].StopwatchID != "b" {
		t.Errorf("second event StopwatchID: got %q, want %q", events[1].StopwatchID, "b")
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.swlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	const numGoroutines = 10
	const eventsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				logger.Log(Event{
					Timestamp:   time.Now(),
					RegistryID:  "reg",
					StopwatchID: "sw-" + string(rune('A'+id)),
					Kind:        KindLapped,
					Lap:         &LapEvent{Index: j},
				})
			}
		}(i)
	}

	wg.Wait()
	logger.Close()

	events := decodeAll(t, path)
	expectedCount := numGoroutines * eventsPerGoroutine
	if len(events) != expectedCount {
		t.Errorf("event count: got %d, want %d", len(events), expectedCount)
	}
}

func TestFileLoggerClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.swlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Log(Event{Timestamp: time.Now(), StopwatchID: "sw", Kind: KindStarted})

	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Double close should not panic or error
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Logging after close should not panic
	logger.Log(Event{Timestamp: time.Now(), StopwatchID: "sw", Kind: KindStopped})

	if events := decodeAll(t, path); len(events) != 1 {
		t.Errorf("event count after close: got %d, want 1", len(events))
	}
}

func TestFileLoggerReportsWriteErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.swlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	var reported []error
	logger.OnError(func(err error) {
		reported = append(reported, err)
	})

	logger.Log(Event{Timestamp: time.Now(), Kind: KindCreated, StopwatchID: "ok"})
	if logger.Failed() != 0 {
		t.Fatalf("Failed() = %d before any write error", logger.Failed())
	}

	// Pull the file out from under the encoder.
	logger.file.Close()
	logger.Log(Event{Timestamp: time.Now(), Kind: KindStarted, StopwatchID: "lost"})

	if logger.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", logger.Failed())
	}
	if len(reported) != 1 {
		t.Fatalf("handler called %d times, want 1", len(reported))
	}
	msg := reported[0].Error()
	if !strings.Contains(msg, "STARTED") || !strings.Contains(msg, path) {
		t.Errorf("error %q should name the event kind and file", msg)
	}

	_ = logger.Close()

	// Events after Close are ignored, not failures
	logger.Log(Event{Timestamp: time.Now(), Kind: KindStopped})
	if logger.Failed() != 1 {
		t.Errorf("Failed() = %d after Close, want 1", logger.Failed())
	}
}

func TestFileLoggerPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.swlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.Path() != path {
		t.Errorf("Path() = %q, want %q", logger.Path(), path)
	}
}

func TestFileLoggerInvalidPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.swlog"))
	if err == nil {
		t.Error("NewFileLogger should fail for a path in a missing directory")
	}
}

func TestEncodeDecodeErrorEvent(t *testing.T) {
	event := Event{
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
		RegistryID:  "reg",
		StopwatchID: "dup",
		Kind:        KindError,
		Error:       &ErrorEventData{Kind: ErrorKindDuplicateID, Op: "create", Message: "duplicate stopwatch id: dup"},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Kind != ErrorKindDuplicateID {
		t.Errorf("Error.Kind: got %v, want DUPLICATE_ID", decoded.Error.Kind)
	}
	if decoded.Error.Op != "create" {
		t.Errorf("Error.Op: got %q, want %q", decoded.Error.Op, "create")
	}
	if !decoded.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Timestamp lost precision: got %v, want %v", decoded.Timestamp, event.Timestamp)
	}
	if decoded.Lap != nil || decoded.State != nil {
		t.Error("unset payloads should decode as nil")
	}
}

func decodeAll(t *testing.T, path string) []Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	decoder := NewDecoder(bytes.NewReader(data))
	var events []Event
	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			break
		}
		events = append(events, event)
	}
	return events
}
