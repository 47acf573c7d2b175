package stopwatch

import (
	"errors"

	"github.com/lapwatch/lapwatch-go/pkg/log"
)

// Stopwatch and registry errors.
var (
	// ErrInvalidArgument is returned by Create for an empty identifier.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateID is returned by Create when the identifier is taken.
	ErrDuplicateID = errors.New("duplicate stopwatch id")

	// ErrInvalidState is returned by Start, Lap and Stop when the current
	// running/stopped state forbids the operation.
	ErrInvalidState = errors.New("invalid stopwatch state")
)

// errorKind maps an error to its trace classification.
func errorKind(err error) log.ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return log.ErrorKindInvalidArgument
	case errors.Is(err, ErrDuplicateID):
		return log.ErrorKindDuplicateID
	default:
		return log.ErrorKindInvalidState
	}
}
