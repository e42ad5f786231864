package debounce

import (
	"sync"
	"time"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
	"github.com/vnykmshr/pageflow/pkg/common/errors"
	"github.com/vnykmshr/pageflow/pkg/common/validation"
)

// Debouncer coalesces bursts of trigger calls into a single action
// invocation that runs after a quiet period.
type Debouncer[T any] interface {
	// Trigger records value and restarts the quiet period. The action
	// runs once per burst, after the quiet period elapses with no further
	// Trigger calls, with the value from the burst's last Trigger.
	Trigger(value T)

	// Cancel drops the pending invocation without running it.
	// It reports whether an invocation was pending.
	Cancel() bool

	// Flush runs the pending invocation immediately on the calling
	// goroutine. It reports whether an invocation was pending.
	Flush() bool

	// Pending reports whether an invocation is currently armed.
	Pending() bool

	// Wait returns the configured quiet period.
	Wait() time.Duration
}

// Config holds configuration options for creating a new Debouncer.
type Config[T any] struct {
	// Action is the function invoked once per burst.
	Action func(T)

	// Wait is the quiet period that must elapse after the last Trigger
	// before Action runs. Must be non-negative; zero fires on the next
	// scheduler turn.
	Wait time.Duration

	// MaxWait, when positive, caps how long a busy burst can defer the
	// action: it fires no later than MaxWait after the burst's first
	// Trigger, with the latest value at that moment. Zero disables the
	// cap. Must not be less than Wait.
	MaxWait time.Duration

	// Scheduler provides timers. If nil, SystemScheduler is used.
	Scheduler clock.Scheduler
}

// debouncer implements Debouncer. The quiet timer is re-armed on every
// Trigger; the optional max-wait timer is armed once per burst. Generation
// counters let callbacks from stopped timers detect that they are stale,
// since a system timer may already be firing when Stop is called.
type debouncer[T any] struct {
	mu        sync.Mutex
	action    func(T)
	wait      time.Duration
	maxWait   time.Duration
	scheduler clock.Scheduler

	timer    clock.Timer
	maxTimer clock.Timer
	value    T
	hasValue bool
	quietGen uint64 // bumped on every re-arm, cancel, flush, fire
	burstGen uint64 // bumped when a burst ends
}

// New creates a Debouncer that runs action after wait of quiet.
// It panics if the configuration is invalid.
func New[T any](action func(T), wait time.Duration) Debouncer[T] {
	return NewWithConfig(Config[T]{Action: action, Wait: wait})
}

// NewSafe is like New but returns an error instead of panicking.
func NewSafe[T any](action func(T), wait time.Duration) (Debouncer[T], error) {
	return NewWithConfigSafe(Config[T]{Action: action, Wait: wait})
}

// NewWithConfig creates a Debouncer with the specified configuration.
// It panics if the configuration is invalid.
func NewWithConfig[T any](config Config[T]) Debouncer[T] {
	d, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return d
}

// NewWithConfigSafe creates a Debouncer with the specified configuration,
// returning an error if the configuration is invalid.
func NewWithConfigSafe[T any](config Config[T]) (Debouncer[T], error) {
	if config.Action == nil {
		return nil, errors.NewValidationError("debounce", "action", nil, "cannot be nil").
			WithHint("provide the function to debounce")
	}
	if err := validation.ValidateNonNegativeDuration("debounce", "wait", config.Wait); err != nil {
		return nil, err
	}
	if config.MaxWait != 0 {
		if err := validation.ValidateNonNegativeDuration("debounce", "maxWait", config.MaxWait); err != nil {
			return nil, err
		}
		if config.MaxWait < config.Wait {
			return nil, errors.NewValidationError("debounce", "maxWait", config.MaxWait, "must not be less than wait").
				WithHint("raise maxWait or lower wait")
		}
	}
	if config.Scheduler == nil {
		config.Scheduler = clock.SystemScheduler{}
	}

	return &debouncer[T]{
		action:    config.Action,
		wait:      config.Wait,
		maxWait:   config.MaxWait,
		scheduler: config.Scheduler,
	}, nil
}

func (d *debouncer[T]) Trigger(value T) {
	d.mu.Lock()
	first := !d.hasValue
	d.value = value
	d.hasValue = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.quietGen++
	gen := d.quietGen
	d.timer = d.scheduler.AfterFunc(d.wait, func() { d.fireQuiet(gen) })

	if d.maxWait > 0 && first {
		burst := d.burstGen
		d.maxTimer = d.scheduler.AfterFunc(d.maxWait, func() { d.fireMax(burst) })
	}
	d.mu.Unlock()
}

func (d *debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasValue {
		return false
	}
	d.resetLocked()
	return true
}

func (d *debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.hasValue {
		d.mu.Unlock()
		return false
	}
	d.fireLocked()
	return true
}

func (d *debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasValue
}

func (d *debouncer[T]) Wait() time.Duration {
	return d.wait
}

func (d *debouncer[T]) fireQuiet(gen uint64) {
	d.mu.Lock()
	if gen != d.quietGen || !d.hasValue {
		d.mu.Unlock()
		return
	}
	d.fireLocked()
}

func (d *debouncer[T]) fireMax(burst uint64) {
	d.mu.Lock()
	if burst != d.burstGen || !d.hasValue {
		d.mu.Unlock()
		return
	}
	d.fireLocked()
}

// fireLocked extracts the pending value, clears burst state, releases the
// lock, and runs the action. The action never runs under the lock, so it
// may Trigger, Cancel, or Flush this debouncer.
func (d *debouncer[T]) fireLocked() {
	value := d.value
	d.resetLocked()
	d.mu.Unlock()
	d.action(value)
}

func (d *debouncer[T]) resetLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.maxTimer != nil {
		d.maxTimer.Stop()
		d.maxTimer = nil
	}
	var zero T
	d.value = zero
	d.hasValue = false
	d.quietGen++
	d.burstGen++
}
