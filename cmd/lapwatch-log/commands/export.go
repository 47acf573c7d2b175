package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lapwatch/lapwatch-go/pkg/log"
)

// ExportRecord is the flat JSON/CSV representation of an event.
type ExportRecord struct {
	Timestamp   string `json:"timestamp"`
	RegistryID  string `json:"registry_id"`
	StopwatchID string `json:"stopwatch_id,omitempty"`
	Kind        string `json:"kind"`
	OldState    string `json:"old_state,omitempty"`
	NewState    string `json:"new_state,omitempty"`
	LapIndex    *int   `json:"lap_index,omitempty"`
	LapMs       *int64 `json:"lap_ms,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Op          string `json:"op,omitempty"`
	Message     string `json:"message,omitempty"`
}

// NewExportRecord flattens an event.
func NewExportRecord(event log.Event) ExportRecord {
	rec := ExportRecord{
		Timestamp:   event.Timestamp.UTC().Format(timestampFormat),
		RegistryID:  event.RegistryID,
		StopwatchID: event.StopwatchID,
		Kind:        event.Kind.String(),
	}
	if event.State != nil {
		rec.OldState = event.State.OldState
		rec.NewState = event.State.NewState
	}
	if event.Lap != nil {
		idx := event.Lap.Index
		ms := event.Lap.Duration.Milliseconds()
		rec.LapIndex = &idx
		rec.LapMs = &ms
	}
	if event.Error != nil {
		rec.ErrorKind = event.Error.Kind.String()
		rec.Op = event.Error.Op
		rec.Message = event.Error.Message
	}
	return rec
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(NewExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "registry_id", "stopwatch_id", "kind", "old_state", "new_state", "lap_index", "lap_ms", "error_kind", "op"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		rec := NewExportRecord(event)
		var lapIndex, lapMs string
		if rec.LapIndex != nil {
			lapIndex = strconv.Itoa(*rec.LapIndex)
			lapMs = strconv.FormatInt(*rec.LapMs, 10)
		}

		row := []string{
			rec.Timestamp,
			rec.RegistryID,
			rec.StopwatchID,
			rec.Kind,
			rec.OldState,
			rec.NewState,
			lapIndex,
			lapMs,
			rec.ErrorKind,
			rec.Op,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
