package inspect

import (
	"fmt"
	"strings"
	"time"

	"github.com/lapwatch/lapwatch-go/pkg/stopwatch"
)

// indentWidth is the number of spaces per indent level.
const indentWidth = 2

// Formatter formats inspection output.
type Formatter struct {
	// ShowCreated includes the creation time of each stopwatch
	ShowCreated bool
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Verbose returns a copy of f that also shows creation times.
func (f *Formatter) Verbose() *Formatter {
	v := *f
	v.ShowCreated = true
	return &v
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	return strings.Repeat(" ", depth*indentWidth) + content
}

// FormatDuration formats a lap duration for display.
// Durations under a second are shown in milliseconds, longer ones in
// seconds with millisecond precision.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.3f s", d.Seconds())
}

// FormatSnapshot formats one stopwatch with its laps.
func (f *Formatter) FormatSnapshot(s stopwatch.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s [%s] laps=%d total=%s\n", s.ID, s.State, len(s.Laps), FormatDuration(s.Total))
	if f.ShowCreated {
		b.WriteString(f.Indent(1, "created: "+s.CreatedAt.Format(time.RFC3339)) + "\n")
	}
	for i, lap := range s.Laps {
		b.WriteString(f.Indent(1, fmt.Sprintf("lap %-3d %s", i+1, FormatDuration(lap))) + "\n")
	}

	return b.String()
}

// FormatTable formats one summary line per stopwatch.
func (f *Formatter) FormatTable(snaps []stopwatch.Snapshot) string {
	if len(snaps) == 0 {
		return "(no stopwatches)\n"
	}

	width := len("ID")
	for _, s := range snaps {
		if len(s.ID) > width {
			width = len(s.ID)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %-7s  %4s  %s\n", width, "ID", "STATE", "LAPS", "TOTAL")
	for _, s := range snaps {
		fmt.Fprintf(&b, "%-*s  %-7s  %4d  %s\n", width, s.ID, s.State, len(s.Laps), FormatDuration(s.Total))
	}
	return b.String()
}
