package throttle

import (
	"sync"
	"time"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
	"github.com/vnykmshr/pageflow/pkg/common/errors"
	"github.com/vnykmshr/pageflow/pkg/common/validation"
)

// Throttler runs an action on the leading edge of a call burst: the first
// Trigger runs immediately and starts a cooldown, and every call during the
// cooldown is dropped.
type Throttler[T any] interface {
	// Trigger runs the action with value when no cooldown is active and
	// starts a new cooldown. It reports whether the action ran. Calls
	// arriving during a cooldown are dropped entirely; their values are
	// never retained.
	Trigger(value T) bool

	// Cancel clears an active cooldown so the next Trigger runs
	// immediately. It reports whether a cooldown was active.
	Cancel() bool

	// Cooling reports whether a cooldown is currently active.
	Cooling() bool

	// Remaining returns the time left on the active cooldown, zero when
	// there is none.
	Remaining() time.Duration

	// Limit returns the configured cooldown duration.
	Limit() time.Duration
}

// Config holds configuration options for creating a new Throttler.
type Config[T any] struct {
	// Action is the function run on each winning Trigger.
	Action func(T)

	// Limit is the cooldown started by every invocation. Zero disables
	// throttling so every Trigger runs. Must be non-negative.
	Limit time.Duration

	// Clock provides time. If nil, SystemClock is used.
	Clock clock.Clock
}

// throttler implements Throttler by timestamp comparison: a Trigger wins
// when at least limit has passed since the last winning Trigger. Cooldown
// expiry is observed lazily, so no timer or goroutine is involved.
type throttler[T any] struct {
	mu      sync.Mutex
	action  func(T)
	limit   time.Duration
	clock   clock.Clock
	lastRun time.Time
	ran     bool
}

// New creates a Throttler that runs action at most once per limit.
// It panics if the configuration is invalid.
func New[T any](action func(T), limit time.Duration) Throttler[T] {
	return NewWithConfig(Config[T]{Action: action, Limit: limit})
}

// NewSafe is like New but returns an error instead of panicking.
func NewSafe[T any](action func(T), limit time.Duration) (Throttler[T], error) {
	return NewWithConfigSafe(Config[T]{Action: action, Limit: limit})
}

// NewWithConfig creates a Throttler with the specified configuration.
// It panics if the configuration is invalid.
func NewWithConfig[T any](config Config[T]) Throttler[T] {
	th, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return th
}

// NewWithConfigSafe creates a Throttler with the specified configuration,
// returning an error if the configuration is invalid.
func NewWithConfigSafe[T any](config Config[T]) (Throttler[T], error) {
	if config.Action == nil {
		return nil, errors.NewValidationError("throttle", "action", nil, "cannot be nil").
			WithHint("provide the function to throttle")
	}
	if err := validation.ValidateNonNegativeDuration("throttle", "limit", config.Limit); err != nil {
		return nil, err
	}
	if config.Clock == nil {
		config.Clock = clock.SystemClock{}
	}

	return &throttler[T]{
		action: config.Action,
		limit:  config.Limit,
		clock:  config.Clock,
	}, nil
}

func (th *throttler[T]) Trigger(value T) bool {
	th.mu.Lock()
	now := th.clock.Now()
	if th.ran && th.limit > 0 && now.Sub(th.lastRun) < th.limit {
		th.mu.Unlock()
		return false
	}
	th.ran = true
	th.lastRun = now
	th.mu.Unlock()

	// The winning call runs its own value synchronously on the calling
	// goroutine; losing calls never reach here.
	th.action(value)
	return true
}

func (th *throttler[T]) Cancel() bool {
	th.mu.Lock()
	defer th.mu.Unlock()
	if !th.coolingLocked() {
		return false
	}
	th.ran = false
	return true
}

func (th *throttler[T]) Cooling() bool {
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.coolingLocked()
}

func (th *throttler[T]) Remaining() time.Duration {
	th.mu.Lock()
	defer th.mu.Unlock()
	if !th.ran || th.limit == 0 {
		return 0
	}
	remaining := th.limit - th.clock.Now().Sub(th.lastRun)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (th *throttler[T]) Limit() time.Duration {
	return th.limit
}

func (th *throttler[T]) coolingLocked() bool {
	return th.ran && th.limit > 0 && th.clock.Now().Sub(th.lastRun) < th.limit
}
