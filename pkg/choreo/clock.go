package choreo

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// call stopped the timer before it expired.
	Stop() bool
}

// Clock schedules delayed callbacks. The production implementation wraps
// time.AfterFunc; tests substitute a manually advanced clock so phase
// timing is deterministic.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns the wall-clock implementation of Clock.
func RealClock() Clock { return realClock{} }
