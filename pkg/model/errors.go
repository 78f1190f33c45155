package model

import "fmt"

// InvalidInputError is returned at a boundary (command ingestion, HTTP
// request parsing) when the input itself is malformed — bad scenario id,
// unknown compound, out-of-range modifier. The session is left unchanged.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// IllegalCommandError is returned when a command is well-formed but not
// legal given current session state — step while no session is attached,
// skip_to_lap beyond total_laps, pause while already paused.
type IllegalCommandError struct {
	Command string
	Reason  string
}

func (e *IllegalCommandError) Error() string {
	return fmt.Sprintf("illegal command %q: %s", e.Command, e.Reason)
}

// InvariantViolationError marks an unrecoverable bug found mid-tick —
// negative fuel, a position collision, two active race-control flags. It
// carries enough to reproduce the failing tick exactly: the seed, the tick
// number, and the command trace that produced it. Per §7 this is never
// silently ignored.
type InvariantViolationError struct {
	Tick         int64
	Seed         int64
	CommandTrace []string
	Reason       string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation at tick %d (seed %d): %s", e.Tick, e.Seed, e.Reason)
}

// TransportError marks a failure in the outward channel (viewer disconnect,
// write timeout). Per §7 this is never surfaced to the viewer as an error;
// it only ever causes session teardown.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
