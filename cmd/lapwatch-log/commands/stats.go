package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lapwatch/lapwatch-go/pkg/inspect"
	"github.com/lapwatch/lapwatch-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents  int
	EventsByKind map[log.Kind]int
	ErrorsByKind map[log.ErrorKind]int
	Registries   map[string]int
	Stopwatches  map[string]*StopwatchStats
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// StopwatchStats holds statistics for a single stopwatch.
type StopwatchStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Laps      int
	Total     time.Duration
	Fastest   time.Duration
	Slowest   time.Duration
	Resets    int
	Errors    int
}

// Mean returns the mean lap duration, or zero when no laps were recorded.
func (s *StopwatchStats) Mean() time.Duration {
	if s.Laps == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Laps)
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

// CollectStats reads the log file and aggregates its events.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[log.Kind]int),
		ErrorsByKind: make(map[log.ErrorKind]int),
		Registries:   make(map[string]int),
		Stopwatches:  make(map[string]*StopwatchStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++
		stats.Registries[event.RegistryID]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Error != nil {
			stats.ErrorsByKind[event.Error.Kind]++
		}

		if event.StopwatchID == "" {
			continue
		}

		// Stopwatches with the same id in different registries are tracked together
		sw, ok := stats.Stopwatches[event.StopwatchID]
		if !ok {
			sw = &StopwatchStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Stopwatches[event.StopwatchID] = sw
		}
		sw.Events++
		if event.Timestamp.After(sw.LastSeen) {
			sw.LastSeen = event.Timestamp
		}

		switch {
		case event.Lap != nil:
			d := event.Lap.Duration
			if sw.Laps == 0 || d < sw.Fastest {
				sw.Fastest = d
			}
			if d > sw.Slowest {
				sw.Slowest = d
			}
			sw.Laps++
			sw.Total += d
		case event.Kind == log.KindReset:
			sw.Resets++
		case event.Error != nil:
			sw.Errors++
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Lapwatch Event Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.UTC().Format(time.RFC3339),
			stats.TimeRange.End.UTC().Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Registries:   %d\n", len(stats.Registries))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range log.AllKinds {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.ErrorsByKind) > 0 {
		fmt.Fprintln(w, "Errors by Kind:")
		for _, kind := range []log.ErrorKind{log.ErrorKindInvalidArgument, log.ErrorKindDuplicateID, log.ErrorKindInvalidState} {
			if count := stats.ErrorsByKind[kind]; count > 0 {
				fmt.Fprintf(w, "  %-18s %d\n", kind.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.Stopwatches) == 0 {
		return
	}

	ids := make([]string, 0, len(stats.Stopwatches))
	for id := range stats.Stopwatches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(w, "Stopwatches:")
	for _, id := range ids {
		sw := stats.Stopwatches[id]
		fmt.Fprintf(w, "  %s: %d events, %d laps", id, sw.Events, sw.Laps)
		if sw.Laps > 0 {
			fmt.Fprintf(w, ", total %s, mean %s, min %s, max %s",
				inspect.FormatDuration(sw.Total),
				inspect.FormatDuration(sw.Mean()),
				inspect.FormatDuration(sw.Fastest),
				inspect.FormatDuration(sw.Slowest))
		}
		if sw.Resets > 0 {
			fmt.Fprintf(w, ", %d resets", sw.Resets)
		}
		if sw.Errors > 0 {
			fmt.Fprintf(w, ", %d errors", sw.Errors)
		}
		fmt.Fprintln(w)
	}
}
