package stopwatch

import "time"

// Clock abstracts the time source used to measure laps.
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock. time.Now carries a monotonic reading,
// so differences between two readings are immune to clock adjustments.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the default Clock.
var SystemClock Clock = systemClock{}
