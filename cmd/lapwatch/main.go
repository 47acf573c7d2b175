// Command lapwatch is an interactive shell for named lap stopwatches.
//
// All stopwatches live in one registry for the lifetime of the process.
// Every transition can be traced to the console or to a CBOR event log that
// lapwatch-log reads.
//
// Usage:
//
//	lapwatch [flags] [id ...]
//
// Any ids given as arguments are created at startup.
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-event-log string   Append stopwatch events to this CBOR file (.swlog)
//	-trace              Mirror stopwatch events to the console log
//	-version            Print version and exit
//
// Configuration file:
//
//	log_level: debug
//	event_log: /tmp/session.swlog
//	trace: true
//	stopwatches: [build, test]
//
// Examples:
//
//	# Start with two stopwatches
//	lapwatch build test
//
//	# Record a trace for later analysis
//	lapwatch -event-log session.swlog
//	lapwatch-log stats session.swlog
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lapwatch/lapwatch-go/cmd/lapwatch/interactive"
	"github.com/lapwatch/lapwatch-go/pkg/log"
	"github.com/lapwatch/lapwatch-go/pkg/stopwatch"
	"github.com/lapwatch/lapwatch-go/pkg/version"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Banner("lapwatch"))
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell, err := interactive.New()
	if err != nil {
		return err
	}

	logger := setupLogging(cfg.LogLevel, shell)
	slog.SetDefault(logger)

	eventLogger, closeEvents, err := setupEventLog(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	reg := stopwatch.NewRegistry(stopwatch.WithLogger(eventLogger))
	reg.OnCreate(func(sw *stopwatch.Stopwatch) {
		logger.Debug("stopwatch created", "id", sw.ID())
	})
	logger.Info("registry ready", "registry_id", reg.ID(), "version", version.Current)

	for _, id := range cfg.Stopwatches {
		if _, err := reg.Create(id); err != nil {
			logger.Warn("skipping configured stopwatch", "id", id, "error", err)
		}
	}

	shell.Attach(reg)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	shell.Run(ctx, cancel)
	logger.Info("shutting down", "stopwatches", reg.Len())
	return nil
}

func setupLogging(level string, shell *interactive.Shell) *slog.Logger {
	lvl, err := parseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(shell.Stderr(), &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// setupEventLog builds the event logger chain from cfg. The returned close
// function flushes and closes any file logger.
func setupEventLog(cfg Config, logger *slog.Logger) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if cfg.Trace {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	if cfg.EventLog != "" {
		fl, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, nil, fmt.Errorf("open event log: %w", err)
		}
		fl.OnError(func(err error) {
			logger.Warn("event log write failed", "error", err)
		})
		loggers = append(loggers, fl)
		closeFn = func() {
			if n := fl.Failed(); n > 0 {
				logger.Warn("event log incomplete", "path", fl.Path(), "dropped", n)
			}
			if err := fl.Close(); err != nil {
				logger.Error("closing event log", "error", err)
			}
		}
		logger.Info("writing event log", "path", cfg.EventLog)
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}
