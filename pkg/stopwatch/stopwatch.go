package stopwatch

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lapwatch/lapwatch-go/pkg/log"
)

// Resolution is the granularity at which lap durations are recorded.
const Resolution = time.Millisecond

// State represents the running state of a stopwatch.
type State uint8

const (
	// StateStopped is the initial state. Laps can not be recorded.
	StateStopped State = iota

	// StateRunning indicates the stopwatch is timing the current lap.
	StateRunning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "STOPPED"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is a point-in-time copy of a stopwatch.
type Snapshot struct {
	ID        string
	State     State
	Laps      []time.Duration
	Total     time.Duration
	CreatedAt time.Time
}

// Stopwatch is a named lap timer. Obtain one from Registry.Create.
//
// Stopwatches are compared by identity: two *Stopwatch values are the same
// stopwatch only if they are the same pointer.
type Stopwatch struct {
	mu sync.Mutex

	// emitMu is taken before mu is released and held until the logger
	// returns, so events reach the logger in operation order.
	emitMu sync.Mutex

	// Immutable after creation
	id         string
	registryID string
	createdAt  time.Time
	clock      Clock
	logger     log.Logger

	// Current state
	state State

	// Start of the lap in progress
	lastMark time.Time

	// Recorded laps in completion order
	laps []time.Duration
}

func newStopwatch(id, registryID string, clock Clock, logger log.Logger) *Stopwatch {
	return &Stopwatch{
		id:         id,
		registryID: registryID,
		createdAt:  clock.Now(),
		clock:      clock,
		logger:     logger,
		state:      StateStopped,
		laps:       []time.Duration{},
	}
}

// ID returns the stopwatch identifier.
func (s *Stopwatch) ID() string {
	return s.id
}

// CreatedAt returns when the registry created the stopwatch.
func (s *Stopwatch) CreatedAt() time.Time {
	return s.createdAt
}

// State returns the current state.
func (s *Stopwatch) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRunning returns true between a Start and the matching Stop or Reset.
func (s *Stopwatch) IsRunning() bool {
	return s.State() == StateRunning
}

// Start begins timing the first lap.
// Returns an error wrapping ErrInvalidState if the stopwatch is already running.
func (s *Stopwatch) Start() error {
	s.mu.Lock()

	if s.state == StateRunning {
		return s.reject("start", "already running")
	}

	now := s.clock.Now()
	s.state = StateRunning
	s.lastMark = now

	s.unlockAndEmit(log.Event{
		Timestamp: now,
		Kind:      log.KindStarted,
		State:     stateChange(StateStopped, StateRunning),
	})
	return nil
}

// Lap records the time since the previous lap boundary and begins a new lap.
// Returns an error wrapping ErrInvalidState if the stopwatch is stopped.
func (s *Stopwatch) Lap() error {
	s.mu.Lock()

	if s.state != StateRunning {
		return s.reject("lap", "not running")
	}

	now := s.clock.Now()
	lap := s.recordLap(now)

	s.unlockAndEmit(log.Event{
		Timestamp: now,
		Kind:      log.KindLapped,
		Lap:       lap,
	})
	return nil
}

// Stop records the final lap and stops the stopwatch.
// Returns an error wrapping ErrInvalidState if the stopwatch is already stopped.
func (s *Stopwatch) Stop() error {
	s.mu.Lock()

	if s.state != StateRunning {
		return s.reject("stop", "not running")
	}

	now := s.clock.Now()
	lap := s.recordLap(now)
	s.state = StateStopped

	s.unlockAndEmit(log.Event{
		Timestamp: now,
		Kind:      log.KindStopped,
		State:     stateChange(StateRunning, StateStopped),
		Lap:       lap,
	})
	return nil
}

// Reset stops the stopwatch and clears all laps. A lap in progress is
// discarded, not recorded. Reset is valid in every state.
func (s *Stopwatch) Reset() {
	s.mu.Lock()

	old := s.state
	s.state = StateStopped
	s.lastMark = time.Time{}
	s.laps = []time.Duration{}
	now := s.clock.Now()

	s.unlockAndEmit(log.Event{
		Timestamp: now,
		Kind:      log.KindReset,
		State:     stateChange(old, StateStopped),
	})
}

// LapTimes returns a copy of the recorded laps in completion order.
// The result is never nil.
func (s *Stopwatch) LapTimes() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLaps()
}

// LapCount returns the number of recorded laps.
func (s *Stopwatch) LapCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.laps)
}

// Total returns the sum of all recorded laps.
func (s *Stopwatch) Total() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sumLaps(s.laps)
}

// Snapshot returns a consistent copy of the stopwatch state.
func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.id,
		State:     s.state,
		Laps:      s.copyLaps(),
		Total:     sumLaps(s.laps),
		CreatedAt: s.createdAt,
	}
}

// String returns a diagnostic summary. The format is not meant for parsing.
func (s *Stopwatch) String() string {
	laps := s.LapTimes()

	ms := make([]string, len(laps))
	for i, d := range laps {
		ms[i] = strconv.FormatInt(d.Milliseconds(), 10)
	}

	return fmt.Sprintf("Stopwatch id: %s\nNumber of laps: %d\nTimes for each lap: [%s]",
		s.id, len(laps), strings.Join(ms, ", "))
}

// recordLap appends the lap ending at now. Caller must hold s.mu.
func (s *Stopwatch) recordLap(now time.Time) *log.LapEvent {
	elapsed := now.Sub(s.lastMark)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsed = elapsed.Truncate(Resolution)

	s.laps = append(s.laps, elapsed)
	s.lastMark = now

	return &log.LapEvent{Index: len(s.laps) - 1, Duration: elapsed}
}

// copyLaps returns an owned copy of the laps. Caller must hold s.mu.
func (s *Stopwatch) copyLaps() []time.Duration {
	out := make([]time.Duration, len(s.laps))
	copy(out, s.laps)
	return out
}

// reject builds the ErrInvalidState error for op and traces it.
// Caller must hold s.mu; reject releases it.
func (s *Stopwatch) reject(op, reason string) error {
	err := fmt.Errorf("%w: cannot %s stopwatch %q: %s", ErrInvalidState, op, s.id, reason)
	s.unlockAndEmit(log.Event{
		Timestamp: s.clock.Now(),
		Kind:      log.KindError,
		Error: &log.ErrorEventData{
			Kind:    log.ErrorKindInvalidState,
			Op:      op,
			Message: err.Error(),
		},
	})
	return err
}

// unlockAndEmit releases s.mu and hands the event to the logger. The logger
// runs outside s.mu, but a later operation on this stopwatch cannot log
// until it returns. Caller must hold s.mu.
func (s *Stopwatch) unlockAndEmit(event log.Event) {
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()

	s.emit(event)
}

// emit fills in identifiers and hands the event to the logger.
func (s *Stopwatch) emit(event log.Event) {
	event.RegistryID = s.registryID
	event.StopwatchID = s.id
	s.logger.Log(event)
}

func stateChange(from, to State) *log.StateChangeEvent {
	return &log.StateChangeEvent{OldState: from.String(), NewState: to.String()}
}

func sumLaps(laps []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range laps {
		total += d
	}
	return total
}
