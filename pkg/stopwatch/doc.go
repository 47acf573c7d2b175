// Package stopwatch implements named lap stopwatches and the registry that
// creates them.
//
// # Stopwatch State Machine
//
// A stopwatch is either STOPPED (initial) or RUNNING:
//
//	STOPPED --Start--> RUNNING
//	RUNNING --Lap----> RUNNING   (records a lap)
//	RUNNING --Stop---> STOPPED   (records the final lap)
//	   any  --Reset--> STOPPED   (clears laps, records nothing)
//
// Start on a running stopwatch, or Lap/Stop on a stopped one, returns an
// error wrapping ErrInvalidState. This is part of the contract, not an
// exceptional condition: callers recover by issuing the other operation.
// Reset never fails, so there is always a way back to a known state.
//
// # Lap Times
//
// Lap durations are measured with the registry's Clock and kept at
// millisecond resolution. LapTimes returns a copy; mutating it does not
// affect the stopwatch.
//
// # Registry
//
// Stopwatches are only created through a Registry, which guarantees at most
// one stopwatch per identifier. Construct one Registry at startup and pass it
// to the code that needs it:
//
//	reg := stopwatch.NewRegistry(stopwatch.WithLogger(logger))
//	sw, err := reg.Create("db-migrate")
//	if err != nil {
//	    return err
//	}
//	_ = sw.Start()
//	// ...
//	_ = sw.Stop()
//	fmt.Println(sw.LapTimes())
//
// Stopwatches are never removed from their registry.
//
// # Concurrency
//
// All Stopwatch and Registry methods are safe for concurrent use. The state
// check and the mutation of every operation happen under one lock, so two
// concurrent Start calls on a fresh stopwatch yield exactly one success.
//
// Events of one stopwatch reach the registry's log.Logger in the order the
// operations took effect, starting with CREATED. The logger is called
// without the state lock held, but it must not call operations on the
// stopwatch whose event it is handling from the same goroutine.
package stopwatch
