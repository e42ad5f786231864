// Package clock defines the time capabilities pageflow components depend on.
//
// Components never call time.Now or time.AfterFunc directly; they take a
// Clock or Scheduler in their Config. Production code uses SystemClock and
// SystemScheduler. Tests inject deterministic implementations so timing
// behavior can be verified without sleeping.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// timer was still pending; false means the callback already ran or
	// was stopped before.
	Stop() bool
}

// Scheduler schedules callbacks to run after a delay. It is the timing
// capability for components that defer work (debounce timers, animation
// frames); components that only compare instants take a plain Clock.
type Scheduler interface {
	Clock

	// AfterFunc arranges for f to run after d elapses. f runs on an
	// unspecified goroutine, never on the caller's.
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock implements Clock using the real system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// SystemScheduler implements Scheduler using the runtime timer heap.
type SystemScheduler struct {
	SystemClock
}

// AfterFunc schedules f via time.AfterFunc.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return systemTimer{time.AfterFunc(d, f)}
}

type systemTimer struct {
	t *time.Timer
}

func (st systemTimer) Stop() bool {
	return st.t.Stop()
}
