package visibility

import (
	"sync"

	"github.com/vnykmshr/pageflow/pkg/common/errors"
	"github.com/vnykmshr/pageflow/pkg/common/validation"
)

// DefaultThreshold is the visible fraction used when Config.Threshold is zero.
const DefaultThreshold = 0.1

// State describes where a target is in its reveal lifecycle.
type State int8

const (
	// StateUnknown means the target has never been observed by this trigger.
	StateUnknown State = iota

	// StatePending means the target is watched and has not yet crossed
	// the threshold.
	StatePending

	// StateTriggered means the reveal action has run for this target.
	// The state is terminal: the target is unwatched and never fires again.
	StateTriggered
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Trigger runs a reveal action exactly once per target, the first time the
// target's visible fraction crosses the threshold.
type Trigger[T comparable] interface {
	// Observe starts watching targets. Already pending or triggered
	// targets are skipped. When the trigger has no source, Observe is a
	// silent no-op: pages without observer support degrade to never
	// revealing rather than erroring.
	Observe(targets ...T) error

	// State returns the reveal lifecycle state of target.
	State(target T) State

	// Pending returns the number of targets awaiting their reveal.
	Pending() int

	// Triggered returns the number of targets whose reveal has run.
	Triggered() int

	// Enabled reports whether an observation source is present.
	Enabled() bool

	// Close stops consuming observations and unwatches all pending
	// targets. It does not close the source, which the caller owns.
	// Close is idempotent.
	Close() error
}

// Config holds configuration options for creating a new Trigger.
type Config[T comparable] struct {
	// Source produces visibility observations. A nil Source disables the
	// trigger: Observe becomes a no-op and nothing ever reveals.
	Source Source[T]

	// OnReveal runs once per target when it first crosses the threshold,
	// on the trigger's consuming goroutine, in observation order. Failures
	// are the caller's: a panic here propagates and is not caught.
	OnReveal func(T)

	// Threshold is the visible fraction, between 0 and 1, at which a
	// target reveals. Zero selects DefaultThreshold.
	Threshold float64

	// RootMargin offsets the viewport edges applied by the source.
	RootMargin Margin
}

// trigger implements Trigger. A single consuming goroutine drains the
// source's event stream, so reveals run strictly in delivery order.
type trigger[T comparable] struct {
	source   Source[T]
	onReveal func(T)
	opts     Options

	mu        sync.Mutex
	states    map[T]State
	pending   int
	triggered int
	closed    bool
	done      chan struct{}
}

// New creates a Trigger that reveals targets through source.
// It panics if the configuration is invalid.
func New[T comparable](source Source[T], onReveal func(T)) Trigger[T] {
	return NewWithConfig(Config[T]{Source: source, OnReveal: onReveal})
}

// NewSafe is like New but returns an error instead of panicking.
func NewSafe[T comparable](source Source[T], onReveal func(T)) (Trigger[T], error) {
	return NewWithConfigSafe(Config[T]{Source: source, OnReveal: onReveal})
}

// NewWithConfig creates a Trigger with the specified configuration.
// It panics if the configuration is invalid.
func NewWithConfig[T comparable](config Config[T]) Trigger[T] {
	t, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithConfigSafe creates a Trigger with the specified configuration,
// returning an error if the configuration is invalid.
func NewWithConfigSafe[T comparable](config Config[T]) (Trigger[T], error) {
	if config.OnReveal == nil {
		return nil, errors.NewValidationError("visibility", "onReveal", nil, "cannot be nil").
			WithHint("provide the action to run when a target becomes visible")
	}
	if config.Threshold == 0 {
		config.Threshold = DefaultThreshold
	}
	if err := validation.ValidateUnitInterval("visibility", "threshold", config.Threshold); err != nil {
		return nil, err
	}

	t := &trigger[T]{
		source:   config.Source,
		onReveal: config.OnReveal,
		opts: Options{
			Threshold:  config.Threshold,
			RootMargin: config.RootMargin,
		},
		states: make(map[T]State),
		done:   make(chan struct{}),
	}

	if t.source != nil {
		go t.consume()
	}

	return t, nil
}

func (t *trigger[T]) Observe(targets ...T) error {
	if t.source == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.ErrClosed
	}

	for _, target := range targets {
		if t.states[target] != StateUnknown {
			continue
		}
		if err := t.source.Watch(target, t.opts); err != nil {
			return errors.NewOperationError("visibility", "observe", err)
		}
		t.states[target] = StatePending
		t.pending++
	}

	return nil
}

func (t *trigger[T]) State(target T) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[target]
}

func (t *trigger[T]) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

func (t *trigger[T]) Triggered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.triggered
}

func (t *trigger[T]) Enabled() bool {
	return t.source != nil
}

func (t *trigger[T]) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.done)

	var pending []T
	for target, st := range t.states {
		if st == StatePending {
			pending = append(pending, target)
			delete(t.states, target)
		}
	}
	t.pending = 0
	t.mu.Unlock()

	if t.source != nil {
		for _, target := range pending {
			_ = t.source.Unwatch(target)
		}
	}

	return nil
}

func (t *trigger[T]) consume() {
	events := t.source.Events()
	for {
		select {
		case <-t.done:
			return
		case batch, ok := <-events:
			if !ok {
				return
			}
			t.handleBatch(batch)
		}
	}
}

// handleBatch processes observations in delivery order. The state
// transition happens before the reveal action runs, so a target cannot
// fire twice even if the action panics.
func (t *trigger[T]) handleBatch(batch []Observation[T]) {
	for _, obs := range batch {
		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			return
		}
		if t.states[obs.Target] != StatePending || obs.Ratio < t.opts.Threshold {
			t.mu.Unlock()
			continue
		}
		t.states[obs.Target] = StateTriggered
		t.pending--
		t.triggered++
		t.mu.Unlock()

		t.onReveal(obs.Target)
		_ = t.source.Unwatch(obs.Target)
	}
}
