/*
Package pacing provides primitives for pacing high-frequency event streams.

This package offers three pacing disciplines:

  - debounce: Coalesces bursts into one action after a quiet period
  - throttle: Caps action frequency to once per fixed interval, leading edge
  - distributed: The same disciplines coordinated across instances via Redis

Debounce vs Throttle:

Debounce waits for the storm to pass and acts once, with the final value.
Use it for "stopped typing" and "stopped resizing" style triggers:

	search := debounce.New(runSearch, 300*time.Millisecond)
	search.Trigger("go con")
	search.Trigger("go concurrency") // runs once, 300ms after the last call

Throttle acts immediately and then ignores the stream for a fixed window.
Use it for continuous streams (scroll positions, pointer moves) where the
first event of each window is the one that matters:

	restyle := throttle.New(updateHeader, 16*time.Millisecond)
	restyle.Trigger(offset) // runs now; further calls within 16ms are dropped

Both are payload-generic, safe for concurrent use, take an injectable
clock/scheduler for deterministic tests, and never catch failures from the
wrapped action.
*/
package pacing
