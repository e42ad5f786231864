package visibility

import (
	"sync"

	"github.com/vnykmshr/pageflow/pkg/common/errors"
	"github.com/vnykmshr/pageflow/pkg/common/validation"
)

// OverflowPolicy defines how a PushSource handles a full event buffer.
type OverflowPolicy int

const (
	// DropOldest evicts the oldest queued batch to make room for the new one.
	DropOldest OverflowPolicy = iota

	// DropNewest drops the incoming batch and keeps the queue as is.
	DropNewest

	// Fail rejects the incoming batch with ErrCapacityExceeded.
	Fail
)

// PushConfig holds configuration for a PushSource.
type PushConfig[T comparable] struct {
	// Buffer is the number of batches the event queue holds before the
	// overflow policy applies.
	Buffer int

	// Policy defines what happens when the buffer is full.
	Policy OverflowPolicy

	// OnDrop is called with each batch lost to the overflow policy.
	OnDrop func(batch []Observation[T])
}

// DefaultPushConfig returns a default configuration.
func DefaultPushConfig[T comparable]() PushConfig[T] {
	return PushConfig[T]{
		Buffer: 64,
		Policy: DropOldest,
	}
}

// PushStats holds statistics about a PushSource.
type PushStats struct {
	// Published is the number of observations accepted into batches.
	Published int64

	// Delivered is the number of batches queued for consumers.
	Delivered int64

	// Dropped is the number of batches lost to the overflow policy.
	Dropped int64

	// Filtered is the number of observations skipped because their target
	// was not being watched.
	Filtered int64
}

// PushSource is an in-process Source fed by explicit Publish calls. It
// stands in where no platform observer exists: tests drive it directly and
// server-side renderers push computed visibility through it.
type PushSource[T comparable] struct {
	config PushConfig[T]
	events chan []Observation[T]

	mu      sync.Mutex
	watched map[T]Options
	closed  bool

	stats   PushStats
	statsMu sync.RWMutex
}

// NewPush creates a PushSource with default configuration.
func NewPush[T comparable]() *PushSource[T] {
	return NewPushWithConfig(DefaultPushConfig[T]())
}

// NewPushWithConfig creates a PushSource with the specified configuration.
func NewPushWithConfig[T comparable](config PushConfig[T]) *PushSource[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultPushConfig[T]().Buffer
	}

	return &PushSource[T]{
		config:  config,
		events:  make(chan []Observation[T], config.Buffer),
		watched: make(map[T]Options),
	}
}

// Watch starts observing target with the given options.
func (s *PushSource[T]) Watch(target T, opts Options) error {
	if err := validation.ValidateUnitInterval("visibility", "threshold", opts.Threshold); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrClosed
	}
	s.watched[target] = opts

	return nil
}

// Unwatch stops observing target. It is a no-op for unknown targets and
// after Close, so teardown paths can call it unconditionally.
func (s *PushSource[T]) Unwatch(target T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.watched, target)
	return nil
}

// Events returns the stream of observation batches.
func (s *PushSource[T]) Events() <-chan []Observation[T] {
	return s.events
}

// Watching returns the number of currently watched targets.
func (s *PushSource[T]) Watching() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watched)
}

// Publish submits observations as one batch. Observations for unwatched
// targets are filtered out; if nothing remains the batch is not queued.
// Order within the batch is preserved through to consumers.
func (s *PushSource[T]) Publish(observations ...Observation[T]) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return errors.ErrClosed
	}

	batch := make([]Observation[T], 0, len(observations))
	filtered := 0
	for _, obs := range observations {
		if _, ok := s.watched[obs.Target]; ok {
			batch = append(batch, obs)
		} else {
			filtered++
		}
	}

	s.updateStats(func(st *PushStats) {
		st.Published += int64(len(batch))
		st.Filtered += int64(filtered)
	})

	if len(batch) == 0 {
		s.mu.Unlock()
		return nil
	}

	err := s.enqueueLocked(batch)
	s.mu.Unlock()
	return err
}

// enqueueLocked queues batch according to the overflow policy. Must be
// called with s.mu held; the mutex also serializes queue eviction.
func (s *PushSource[T]) enqueueLocked(batch []Observation[T]) error {
	for {
		select {
		case s.events <- batch:
			s.updateStats(func(st *PushStats) { st.Delivered++ })
			return nil
		default:
		}

		switch s.config.Policy {
		case DropNewest:
			s.updateStats(func(st *PushStats) { st.Dropped++ })
			if s.config.OnDrop != nil {
				s.config.OnDrop(batch)
			}
			return nil
		case Fail:
			return errors.ErrCapacityExceeded
		default: // DropOldest
			select {
			case old := <-s.events:
				s.updateStats(func(st *PushStats) { st.Dropped++ })
				if s.config.OnDrop != nil {
					s.config.OnDrop(old)
				}
			default:
				// A consumer drained the queue between selects; retry the send.
			}
		}
	}
}

// Stats returns a snapshot of source statistics.
func (s *PushSource[T]) Stats() PushStats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

// Close stops the source and closes the Events channel. It is idempotent.
func (s *PushSource[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.watched = make(map[T]Options)
	close(s.events)

	return nil
}

// updateStats safely updates statistics.
func (s *PushSource[T]) updateStats(updater func(*PushStats)) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	updater(&s.stats)
}
