package log

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a stopwatch event captured by a registry or stopwatch.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RegistryID identifies the registry that owns the stopwatch (UUID).
	RegistryID string `cbor:"2,keyasint"`

	// StopwatchID is the stopwatch identifier. For rejected creations it is
	// the identifier that was requested.
	StopwatchID string `cbor:"3,keyasint,omitempty"`

	// Kind classifies the event.
	Kind Kind `cbor:"4,keyasint"`

	// Type-specific payload (zero or more of these will be set).
	State *StateChangeEvent `cbor:"5,keyasint,omitempty"` // Running/stopped transitions
	Lap   *LapEvent         `cbor:"6,keyasint,omitempty"` // Recorded lap (LAPPED, STOPPED)
	Error *ErrorEventData   `cbor:"7,keyasint,omitempty"` // Rejected operations
}

// Kind classifies the event type.
type Kind uint8

const (
	// KindCreated indicates the registry created a stopwatch.
	KindCreated Kind = 0
	// KindStarted indicates a stopwatch started running.
	KindStarted Kind = 1
	// KindLapped indicates a lap was recorded on a running stopwatch.
	KindLapped Kind = 2
	// KindStopped indicates a stopwatch stopped and recorded its final lap.
	KindStopped Kind = 3
	// KindReset indicates a stopwatch was reset.
	KindReset Kind = 4
	// KindError indicates an operation was rejected.
	KindError Kind = 5
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCreated:
		return "CREATED"
	case KindStarted:
		return "STARTED"
	case KindLapped:
		return "LAPPED"
	case KindStopped:
		return "STOPPED"
	case KindReset:
		return "RESET"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AllKinds lists every event kind in declaration order.
var AllKinds = []Kind{KindCreated, KindStarted, KindLapped, KindStopped, KindReset, KindError}

// ParseKind converts a case-insensitive kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid kind %q (valid: created, started, lapped, stopped, reset, error)", s)
}

// StateChangeEvent captures a running/stopped transition.
type StateChangeEvent struct {
	// OldState is the state before the operation.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the operation.
	NewState string `cbor:"2,keyasint"`
}

// LapEvent captures a recorded lap.
type LapEvent struct {
	// Index is the zero-based position of the lap in the stopwatch's lap list.
	Index int `cbor:"1,keyasint"`

	// Duration is the recorded lap duration (millisecond resolution).
	// Stored as nanoseconds.
	Duration time.Duration `cbor:"2,keyasint"`
}

// ErrorEventData captures a rejected operation.
type ErrorEventData struct {
	// Kind classifies the failure.
	Kind ErrorKind `cbor:"1,keyasint"`

	// Op is the operation that was rejected (create, start, lap, stop).
	Op string `cbor:"2,keyasint"`

	// Message is the error message returned to the caller.
	Message string `cbor:"3,keyasint,omitempty"`
}

// ErrorKind classifies a rejected operation.
type ErrorKind uint8

const (
	// ErrorKindInvalidArgument indicates an empty identifier.
	ErrorKindInvalidArgument ErrorKind = 0
	// ErrorKindDuplicateID indicates the identifier was already registered.
	ErrorKindDuplicateID ErrorKind = 1
	// ErrorKindInvalidState indicates the stopwatch state forbids the operation.
	ErrorKindInvalidState ErrorKind = 2
)

// String returns the error kind name.
func (e ErrorKind) String() string {
	switch e {
	case ErrorKindInvalidArgument:
		return "INVALID_ARGUMENT"
	case ErrorKindDuplicateID:
		return "DUPLICATE_ID"
	case ErrorKindInvalidState:
		return "INVALID_STATE"
	default:
		return "UNKNOWN"
	}
}
