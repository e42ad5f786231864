package testutil

import (
	"bytes"
	"sync"
	"time"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
)

// MockClock implements clock.Clock for testing with controllable time.
// Used across pacing tests to verify cooldown behavior without real delays.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock starting at the given time.
// If zero time is provided, uses current time.
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

// Now returns the current mock time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the mock clock forward by the given duration.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set sets the mock clock to a specific time.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// FakeScheduler implements clock.Scheduler with a manually advanced clock.
// Timers fire inside Advance, on the advancing goroutine, in timestamp order
// (FIFO for equal timestamps). A callback that arms another timer due within
// the same Advance window gets that timer fired in the same call, so chained
// schedules (debounce re-arms, typewriter frames) play out deterministically.
type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *FakeScheduler
	when    time.Time
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewFakeScheduler creates a FakeScheduler starting at the given time.
// If zero time is provided, uses current time.
func NewFakeScheduler(start time.Time) *FakeScheduler {
	if start.IsZero() {
		start = time.Now()
	}
	return &FakeScheduler{now: start}
}

// Now returns the current fake time.
func (s *FakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// AfterFunc registers f to run when the fake clock reaches now+d.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{s: s, when: s.now.Add(d), seq: s.seq, f: f}
	s.seq++
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the fake clock forward by d, firing every due timer in
// order. The clock lands exactly on each timer's deadline while its
// callback runs, then settles at the target time.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	for {
		t := s.popDueLocked(target)
		if t == nil {
			break
		}
		if t.when.After(s.now) {
			s.now = t.when
		}
		t.fired = true
		f := t.f
		s.mu.Unlock()
		f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// Pending returns the number of armed timers.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// popDueLocked removes and returns the earliest timer due at or before
// target, preferring lower sequence numbers on ties. Returns nil when no
// timer is due. Must be called with s.mu held.
func (s *FakeScheduler) popDueLocked(target time.Time) *fakeTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.timers = live

	best := -1
	for i, t := range s.timers {
		if t.when.After(target) {
			continue
		}
		if best == -1 || t.when.Before(s.timers[best].when) ||
			(t.when.Equal(s.timers[best].when) && t.seq < s.timers[best].seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	t := s.timers[best]
	s.timers = append(s.timers[:best], s.timers[best+1:]...)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// MockWriter is a thread-safe io.Writer capturing output for assertions,
// used as a log sink in lifecycle tests.
type MockWriter struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	writeCount int
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeCount++
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// Len returns the current buffer length.
func (mw *MockWriter) Len() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.Len()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// Reset clears the buffer and counters.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.buf.Reset()
	mw.writeCount = 0
}
