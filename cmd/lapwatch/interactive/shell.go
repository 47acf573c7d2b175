// Package interactive provides the interactive command-line interface
// for lapwatch.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/lapwatch/lapwatch-go/pkg/inspect"
	"github.com/lapwatch/lapwatch-go/pkg/stopwatch"
)

// Shell handles interactive mode for lapwatch.
type Shell struct {
	registry  *stopwatch.Registry
	inspector *inspect.Inspector
	rl        *readline.Instance

	out    io.Writer
	errOut io.Writer
}

// New creates a readline-backed shell. Call Attach before Run.
func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lapwatch> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    newCompleter(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		rl:     rl,
		out:    rl.Stdout(),
		errOut: rl.Stderr(),
	}, nil
}

// NewWithOutput creates a shell without a terminal that executes commands
// via Exec and writes results to out.
func NewWithOutput(registry *stopwatch.Registry, out io.Writer) *Shell {
	s := &Shell{out: out, errOut: out}
	s.Attach(registry)
	return s
}

// Attach binds the shell to a registry.
func (s *Shell) Attach(registry *stopwatch.Registry) {
	s.registry = registry
	s.inspector = inspect.NewInspector(registry)
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stderr() io.Writer {
	return s.errOut
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	if s.rl == nil {
		return
	}

	// Closing readline unblocks a pending Readline on shutdown.
	done := make(chan struct{})
	defer close(done)
	closeRL := closeOnce(s.rl)
	defer closeRL()
	go closeOnDone(ctx, done, closeRL)

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Exec(line) {
			cancel()
			return
		}
	}
}

// Exec executes one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "create", "new", "c":
		s.cmdCreate(args)

	case "start", "s":
		s.withStopwatch("start", args, (*stopwatch.Stopwatch).Start)

	case "lap", "l":
		s.withStopwatch("lap", args, (*stopwatch.Stopwatch).Lap)

	case "stop", "x":
		s.withStopwatch("stop", args, (*stopwatch.Stopwatch).Stop)

	case "reset":
		s.withStopwatch("reset", args, func(sw *stopwatch.Stopwatch) error {
			sw.Reset()
			return nil
		})

	case "laps":
		s.cmdLaps(args)

	case "show":
		s.cmdShow(args)

	case "list", "ls":
		fmt.Fprint(s.out, s.inspector.Formatter().FormatTable(s.registry.Snapshots()))

	case "dump":
		s.cmdDump(args)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Lapwatch Commands:
  Stopwatches:
    create <id>...     - Create one or more stopwatches
    list               - List all stopwatches

  Timing:
    start <id>         - Start a stopped stopwatch
    lap <id>           - Record a lap on a running stopwatch
    stop <id>          - Record the final lap and stop
    reset <id>         - Stop and discard all laps

  Inspection:
    laps <id>          - Print the recorded laps
    show [-v] <id>     - Show a stopwatch with formatted laps
    dump [format]      - Dump all stopwatches (text, json, yaml)

  General:
    help               - Show this help
    quit               - Exit lapwatch`)
}

// cmdCreate handles the create command.
func (s *Shell) cmdCreate(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: create <id>...")
		return
	}

	for _, id := range args {
		sw, err := s.registry.Create(id)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(s.out, "Created %s\n", sw.ID())
	}
}

// withStopwatch looks up the stopwatch named by args[0] and applies op.
func (s *Shell) withStopwatch(name string, args []string, op func(*stopwatch.Stopwatch) error) {
	sw, ok := s.lookup(name, args)
	if !ok {
		return
	}

	if err := op(sw); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		if errors.Is(err, stopwatch.ErrInvalidState) {
			fmt.Fprintf(s.out, "  %s is %s\n", sw.ID(), sw.State())
		}
		return
	}

	snap := sw.Snapshot()
	switch {
	case (name == "lap" || name == "stop") && len(snap.Laps) > 0:
		last := snap.Laps[len(snap.Laps)-1]
		fmt.Fprintf(s.out, "%s: lap %d %s [%s]\n", snap.ID, len(snap.Laps), inspect.FormatDuration(last), snap.State)
	default:
		fmt.Fprintf(s.out, "%s: %s\n", snap.ID, snap.State)
	}
}

// cmdLaps handles the laps command.
func (s *Shell) cmdLaps(args []string) {
	sw, ok := s.lookup("laps", args)
	if !ok {
		return
	}
	fmt.Fprintln(s.out, sw.String())
}

// cmdShow handles the show command. With -v the creation time is included.
func (s *Shell) cmdShow(args []string) {
	formatter := s.inspector.Formatter()
	if len(args) > 0 && args[0] == "-v" {
		formatter = formatter.Verbose()
		args = args[1:]
	}

	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: show [-v] <id>")
		return
	}

	snap, err := s.inspector.Stopwatch(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, formatter.FormatSnapshot(snap))
}

// cmdDump handles the dump command.
func (s *Shell) cmdDump(args []string) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	format, err := inspect.ParseFormat(name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	if err := s.inspector.Render(s.out, format); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) lookup(cmd string, args []string) (*stopwatch.Stopwatch, bool) {
	if len(args) < 1 {
		fmt.Fprintf(s.out, "Usage: %s <id>\n", cmd)
		return nil, false
	}

	sw, ok := s.registry.Get(args[0])
	if !ok {
		fmt.Fprintf(s.out, "Error: %v: %q\n", inspect.ErrStopwatchNotFound, args[0])
		return nil, false
	}
	return sw, true
}

// closeOnce wraps c so that only the first call closes it.
func closeOnce(c io.Closer) func() {
	var once sync.Once
	return func() {
		once.Do(func() { _ = c.Close() })
	}
}

// closeOnDone calls closeFn when ctx is cancelled, unless done is closed first.
func closeOnDone(ctx context.Context, done <-chan struct{}, closeFn func()) {
	select {
	case <-ctx.Done():
		closeFn()
	case <-done:
	}
}

func newCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("create"),
		readline.PcItem("start"),
		readline.PcItem("lap"),
		readline.PcItem("stop"),
		readline.PcItem("reset"),
		readline.PcItem("laps"),
		readline.PcItem("show",
			readline.PcItem("-v"),
		),
		readline.PcItem("list"),
		readline.PcItem("dump",
			readline.PcItem("text"),
			readline.PcItem("json"),
			readline.PcItem("yaml"),
		),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
