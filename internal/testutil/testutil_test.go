package testutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		calls := 0
		Eventually(t, func() bool {
			calls++
			return true
		}, 100*time.Millisecond, 10*time.Millisecond)

		if calls != 1 {
			t.Errorf("condition evaluated %d times, want 1", calls)
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var flag int32
		go func() {
			time.Sleep(40 * time.Millisecond)
			atomic.StoreInt32(&flag, 1)
		}()

		Eventually(t, func() bool {
			return atomic.LoadInt32(&flag) == 1
		}, 500*time.Millisecond, 5*time.Millisecond)
	})
}

func TestEventuallyWithContext(t *testing.T) {
	var flag int32
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() {
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt32(&flag, 1)
	}()

	EventuallyWithContext(t, ctx, func() bool {
		return atomic.LoadInt32(&flag) == 1
	}, 5*time.Millisecond)
}

func TestAssertEventually(t *testing.T) {
	var flag int32

	go func() {
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt32(&flag, 1)
	}()

	AssertEventually(t, func() bool {
		return atomic.LoadInt32(&flag) == 1
	})
}

func TestWaitForInt32(t *testing.T) {
	var value int32

	go func() {
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&value, 7)
	}()

	WaitForInt32(t, &value, 7, 500*time.Millisecond)
}

func TestWaitForInt64(t *testing.T) {
	var value int64

	go func() {
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt64(&value, 1<<40)
	}()

	WaitForInt64(t, &value, 1<<40, 500*time.Millisecond)
}

func TestCallbackTracker(t *testing.T) {
	t.Run("initially unmarked", func(t *testing.T) {
		tracker := NewCallbackTracker()

		if tracker.Called() {
			t.Error("fresh tracker reports Called")
		}
		if tracker.Value() != nil {
			t.Errorf("fresh tracker value = %v, want nil", tracker.Value())
		}
		tracker.AssertNotCalled(t)
	})

	t.Run("counting and values", func(t *testing.T) {
		tracker := NewCallbackTracker()

		tracker.Mark("portfolio")
		tracker.Mark("about")

		tracker.AssertCalled(t)
		tracker.AssertCallCount(t, 2)
		if tracker.Value() != "about" {
			t.Errorf("value = %v, want about", tracker.Value())
		}
	})

	t.Run("mark without value keeps last value", func(t *testing.T) {
		tracker := NewCallbackTracker()

		tracker.Mark("first")
		tracker.Mark()

		if tracker.Value() != "first" {
			t.Errorf("value = %v, want first", tracker.Value())
		}
		tracker.AssertCallCount(t, 2)
	})

	t.Run("reset", func(t *testing.T) {
		tracker := NewCallbackTracker()

		tracker.Mark(42)
		tracker.Reset()

		if tracker.Called() {
			t.Error("tracker still called after Reset")
		}
		if tracker.Value() != nil {
			t.Errorf("value = %v after Reset, want nil", tracker.Value())
		}
	})

	t.Run("concurrent marks", func(t *testing.T) {
		tracker := NewCallbackTracker()

		const goroutines = 8
		const marksEach = 50

		done := make(chan struct{}, goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				for j := 0; j < marksEach; j++ {
					tracker.Mark()
				}
				done <- struct{}{}
			}()
		}
		for i := 0; i < goroutines; i++ {
			<-done
		}

		tracker.AssertCallCount(t, goroutines*marksEach)
	})
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("context should have a deadline")
	}
	if time.Until(deadline) > TestTimeout {
		t.Error("deadline is too far in the future")
	}
}

func TestAssertions(t *testing.T) {
	AssertNoError(t, nil)
	AssertError(t, context.Canceled)
	AssertEqual(t, "pending", "pending")
	AssertEqual(t, 160, 160)
	AssertNotEqual(t, "pending", "triggered")
	AssertNotEqual(t, 0.1, 0.5)
}
