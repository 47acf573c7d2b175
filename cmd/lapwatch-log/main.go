// Command lapwatch-log is a tool for viewing and analyzing lapwatch event logs.
//
// Event logs are written by lapwatch when started with the -event-log flag.
//
// Usage:
//
//	lapwatch-log <command> [flags] <file.swlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	stats    Show statistics about the log file
//	version  Print version
//
// Examples:
//
//	# View all events
//	lapwatch-log view session.swlog
//
//	# View only laps of one stopwatch
//	lapwatch-log view -kind lapped -id build session.swlog
//
//	# Export to CSV
//	lapwatch-log export -format csv -o session.csv session.swlog
//
//	# Show statistics
//	lapwatch-log stats session.swlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lapwatch/lapwatch-go/cmd/lapwatch-log/commands"
	"github.com/lapwatch/lapwatch-go/pkg/log"
	"github.com/lapwatch/lapwatch-go/pkg/version"
)

const usage = `lapwatch-log - Lapwatch Event Log Analyzer

Usage:
  lapwatch-log <command> [flags] <file.swlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  stats    Show statistics about the log file
  version  Print version

Use "lapwatch-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "version", "-version", "--version":
		fmt.Println(version.Banner("lapwatch-log"))
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lapwatch-log view - View log file in human-readable format

Usage:
  lapwatch-log view [flags] <file.swlog>

Flags:
`)
		fs.PrintDefaults()
	}

	kind := fs.String("kind", "", "Filter by event kind (created, started, lapped, stopped, reset, error)")
	id := fs.String("id", "", "Filter by stopwatch id")
	registry := fs.String("registry", "", "Filter by registry id")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	// Build filter
	filter := log.Filter{
		RegistryID:  *registry,
		StopwatchID: *id,
	}

	if *kind != "" {
		k, err := log.ParseKind(*kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Kind = &k
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lapwatch-log export - Export log file to JSONL or CSV format

Usage:
  lapwatch-log export [flags] <file.swlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lapwatch-log stats - Show statistics about the log file

Usage:
  lapwatch-log stats <file.swlog>
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
