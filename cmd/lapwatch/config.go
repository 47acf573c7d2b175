package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the lapwatch configuration.
// Values come from the optional YAML file first; flags given on the command
// line override them.
type Config struct {
	ConfigFile  string   `yaml:"-"`
	ShowVersion bool     `yaml:"-"`
	LogLevel    string   `yaml:"log_level"`
	EventLog    string   `yaml:"event_log"`
	Trace       bool     `yaml:"trace"`
	Stopwatches []string `yaml:"stopwatches"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
	}
}

// loadConfigFile merges the YAML file at path into cfg.
// Keys absent from the file leave cfg untouched.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// parseConfig builds the configuration from args.
func parseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("lapwatch", flag.ContinueOnError)

	var flags Config
	fs.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&flags.EventLog, "event-log", "", "Append stopwatch events to this CBOR file (.swlog)")
	fs.BoolVar(&flags.Trace, "trace", false, "Mirror stopwatch events to the console log")
	fs.BoolVar(&flags.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	cfg.ShowVersion = flags.ShowVersion
	if flags.ConfigFile != "" {
		if err := loadConfigFile(flags.ConfigFile, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = flags.ConfigFile
	}

	// Explicit flags win over the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "event-log":
			cfg.EventLog = flags.EventLog
		case "trace":
			cfg.Trace = flags.Trace
		}
	})

	// Remaining arguments are stopwatch ids to pre-create
	cfg.Stopwatches = append(cfg.Stopwatches, fs.Args()...)

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseLevel converts a level name into an slog.Level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", level)
	}
}
