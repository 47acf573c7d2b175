package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lapwatch/lapwatch-go/pkg/stopwatch"
)

// Inspector errors.
var (
	ErrStopwatchNotFound = errors.New("stopwatch not found")
	ErrUnknownFormat     = errors.New("unknown output format")
)

// Format selects the output encoding of Render.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a case-insensitive name into a Format.
// An empty name selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: text, json, yaml)", ErrUnknownFormat, s)
	}
}

// Report is the serializable view of a registry.
type Report struct {
	RegistryID  string            `json:"registry_id" yaml:"registry_id"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Stopwatches []StopwatchReport `json:"stopwatches" yaml:"stopwatches"`
}

// StopwatchReport is the serializable view of one stopwatch.
// Durations are in milliseconds.
type StopwatchReport struct {
	ID        string    `json:"id" yaml:"id"`
	State     string    `json:"state" yaml:"state"`
	LapsMs    []int64   `json:"laps_ms" yaml:"laps_ms"`
	TotalMs   int64     `json:"total_ms" yaml:"total_ms"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewStopwatchReport converts a snapshot into its serializable form.
func NewStopwatchReport(s stopwatch.Snapshot) StopwatchReport {
	laps := make([]int64, len(s.Laps))
	for i, d := range s.Laps {
		laps[i] = d.Milliseconds()
	}
	return StopwatchReport{
		ID:        s.ID,
		State:     s.State.String(),
		LapsMs:    laps,
		TotalMs:   s.Total.Milliseconds(),
		CreatedAt: s.CreatedAt,
	}
}

// Inspector renders the contents of a registry.
type Inspector struct {
	registry  *stopwatch.Registry
	formatter *Formatter
	now       func() time.Time
}

// NewInspector creates a new Inspector for the given registry.
func NewInspector(registry *stopwatch.Registry) *Inspector {
	return &Inspector{
		registry:  registry,
		formatter: NewFormatter(),
		now:       time.Now,
	}
}

// Formatter returns the formatter used for text output.
func (i *Inspector) Formatter() *Formatter {
	return i.formatter
}

// Report builds a report of every stopwatch in creation order.
func (i *Inspector) Report() Report {
	snaps := i.registry.Snapshots()
	out := Report{
		RegistryID:  i.registry.ID(),
		GeneratedAt: i.now().UTC(),
		Stopwatches: make([]StopwatchReport, len(snaps)),
	}
	for n, s := range snaps {
		out.Stopwatches[n] = NewStopwatchReport(s)
	}
	return out
}

// Stopwatch returns a snapshot of the stopwatch registered under id.
func (i *Inspector) Stopwatch(id string) (stopwatch.Snapshot, error) {
	sw, ok := i.registry.Get(id)
	if !ok {
		return stopwatch.Snapshot{}, fmt.Errorf("%w: %q", ErrStopwatchNotFound, id)
	}
	return sw.Snapshot(), nil
}

// Render writes the registry contents to w in the given format.
func (i *Inspector) Render(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		_, err := io.WriteString(w, i.formatter.FormatTable(i.registry.Snapshots()))
		return err

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(i.Report())

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(i.Report()); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
