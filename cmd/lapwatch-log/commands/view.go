// Package commands implements the lapwatch-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/lapwatch/lapwatch-go/pkg/inspect"
	"github.com/lapwatch/lapwatch-go/pkg/log"
)

// timestampFormat is used for all human-readable and exported timestamps.
const timestampFormat = "2006-01-02T15:04:05.000000Z"

// RunView writes every event matching filter to w in human-readable form.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a one-line representation of the event to w.
// Format: timestamp [reg:id] KIND stopwatch details
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timestampFormat)
	fmt.Fprintf(w, "%s [reg:%s] %-7s %s", ts, shortenID(event.RegistryID), event.Kind, event.StopwatchID)

	if event.State != nil && event.State.OldState != event.State.NewState {
		fmt.Fprintf(w, " %s->%s", event.State.OldState, event.State.NewState)
	}
	if event.Lap != nil {
		fmt.Fprintf(w, " lap=%d %s", event.Lap.Index+1, inspect.FormatDuration(event.Lap.Duration))
	}
	if event.Error != nil {
		fmt.Fprintf(w, " %s op=%s: %s", event.Error.Kind, event.Error.Op, event.Error.Message)
	}
	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of a UUID for display.
func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}
