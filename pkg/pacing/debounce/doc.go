/*
Package debounce coalesces bursts of trigger calls into a single action
invocation that runs after a quiet period.

A Debouncer wraps one action. Every Trigger call records its value and
restarts the quiet timer; when the configured wait elapses with no further
calls, the action runs exactly once with the value from the burst's last
Trigger. A burst that never continues still fires: a single Trigger runs
the action wait later.

Guarantees:
  - At most one invocation per quiet period, with the last value
  - At most one outstanding timer per instance; re-arming always stops the
    previous timer, so timers never leak and a burst never double-fires
  - Action failures are not caught; a panicking action propagates on the
    goroutine that fired it

Basic Usage:

	search := debounce.New(func(query string) {
		results.Update(query)
	}, 300*time.Millisecond)

	input.OnChange(search.Trigger) // storms of keystrokes, one search

Cancellation and flushing:

Long-lived owners can tear down or force a pending invocation. Both report
whether an invocation was actually pending:

	if search.Cancel() {
		log.Println("dropped a pending search")
	}

	search.Trigger("final query")
	search.Flush() // runs the action now instead of waiting

Bounded staleness:

A continuous stream can keep a plain debouncer waiting forever. MaxWait
caps the deferral: the action fires no later than MaxWait after the
burst's first trigger, with the latest value at that moment.

	saver := debounce.NewWithConfig(debounce.Config[Document]{
		Action:  persist,
		Wait:    2 * time.Second,
		MaxWait: 10 * time.Second,
	})

Deterministic testing:

Timing flows through the clock.Scheduler capability, so tests can drive a
debouncer with a fake scheduler and assert exact fire times without
sleeping.
*/
package debounce
