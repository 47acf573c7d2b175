// Package log provides a structured event trace for stopwatches.
//
// This package defines the Logger interface and Event types for capturing
// every stopwatch and registry transition. It is separate from operational
// logging (slog): the trace is a complete machine-readable record of what
// happened to each stopwatch, useful for debugging timing code after the fact.
//
// # Basic Usage
//
// Applications configure tracing by passing a Logger to the registry:
//
//	// For development: log to console via slog
//	reg := stopwatch.NewRegistry(stopwatch.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For later analysis: write to binary file
//	fl, _ := log.NewFileLogger("/tmp/run.swlog")
//	reg := stopwatch.NewRegistry(stopwatch.WithLogger(fl))
//
//	// Both: use MultiLogger
//	reg := stopwatch.NewRegistry(stopwatch.WithLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	)))
//
// # Event Kinds
//
// Each event has a Kind:
//   - CREATED: the registry created a stopwatch
//   - STARTED, LAPPED, STOPPED: successful state machine transitions
//   - RESET: a reset, recording the state it was called from
//   - ERROR: a rejected operation (InvalidArgument, DuplicateID, InvalidState)
//
// # File Format
//
// Log files use CBOR encoding with .swlog extension. The lapwatch-log CLI
// tool provides viewing, statistics, and export.
package log
