package visibility

import (
	"errors"
	"sync"
	"testing"

	"github.com/vnykmshr/pageflow/internal/testutil"
	pferrors "github.com/vnykmshr/pageflow/pkg/common/errors"
)

func TestNewWithConfigSafe(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()
	onReveal := func(string) {}

	tests := []struct {
		name    string
		config  Config[string]
		wantErr bool
	}{
		{"valid", Config[string]{Source: src, OnReveal: onReveal}, false},
		{"valid without source", Config[string]{OnReveal: onReveal}, false},
		{"valid custom threshold", Config[string]{Source: src, OnReveal: onReveal, Threshold: 0.5}, false},
		{"threshold of exactly one", Config[string]{Source: src, OnReveal: onReveal, Threshold: 1}, false},
		{"nil reveal action", Config[string]{Source: src}, true},
		{"threshold above one", Config[string]{Source: src, OnReveal: onReveal, Threshold: 1.5}, true},
		{"negative threshold", Config[string]{Source: src, OnReveal: onReveal, Threshold: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewWithConfigSafe(tt.config)
			if tt.wantErr {
				testutil.AssertError(t, err)
				if !pferrors.IsValidationError(err) {
					t.Errorf("want validation error, got %v", err)
				}
				return
			}

			testutil.AssertNoError(t, err)
			defer tr.Close()
			testutil.AssertEqual(t, tr.Pending(), 0)
			testutil.AssertEqual(t, tr.Triggered(), 0)
		})
	}
}

func TestOneShotReveal(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()

	var mu sync.Mutex
	var reveals []string
	tr := New[string](src, func(id string) {
		mu.Lock()
		reveals = append(reveals, id)
		mu.Unlock()
	})
	defer tr.Close()

	testutil.AssertNoError(t, tr.Observe("a", "b"))
	testutil.AssertEqual(t, tr.Pending(), 2)
	testutil.AssertEqual(t, tr.State("a"), StatePending)

	// Below the default 10% threshold: nothing fires.
	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "a", Ratio: 0.05}))
	// Exactly at the threshold: the boundary is inclusive, "a" reveals.
	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "a", Ratio: 0.1}))

	testutil.AssertEventually(t, func() bool { return tr.Triggered() == 1 })
	testutil.AssertEqual(t, tr.State("a"), StateTriggered)
	testutil.AssertEqual(t, tr.Pending(), 1)

	// "a" re-entering view must not fire again. Revealing "b" afterwards
	// proves the earlier observation was fully processed and dropped.
	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "a", Ratio: 0.9}))
	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "b", Ratio: 0.5}))

	// Wait on the recorded reveals, not Triggered(): the counter moves
	// before the action runs.
	testutil.AssertEventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reveals) == 2
	})
	mu.Lock()
	got := append([]string(nil), reveals...)
	mu.Unlock()
	testutil.AssertEqual(t, got[0], "a")
	testutil.AssertEqual(t, got[1], "b")
	testutil.AssertEqual(t, tr.Triggered(), 2)
}

func TestRevealsFollowBatchOrder(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()

	var mu sync.Mutex
	var reveals []string
	tr := New[string](src, func(id string) {
		mu.Lock()
		reveals = append(reveals, id)
		mu.Unlock()
	})
	defer tr.Close()

	testutil.AssertNoError(t, tr.Observe("a", "b"))

	// One batch, "b" before "a": reveals must run in that order even
	// though "a" was observed first.
	testutil.AssertNoError(t, src.Publish(
		Observation[string]{Target: "b", Ratio: 1},
		Observation[string]{Target: "a", Ratio: 1},
	))

	testutil.AssertEventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reveals) == 2
	})
	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, reveals[0], "b")
	testutil.AssertEqual(t, reveals[1], "a")
}

func TestCustomThreshold(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()

	tracker := testutil.NewCallbackTracker()
	tr := NewWithConfig(Config[string]{
		Source:     src,
		OnReveal:   func(id string) { tracker.Mark(id) },
		Threshold:  0.5,
		RootMargin: Margin{Bottom: 200},
	})
	defer tr.Close()

	testutil.AssertNoError(t, tr.Observe("x", "settle"))

	// 49% visible stays pending; the settle target proves the batch was
	// consumed before we assert.
	testutil.AssertNoError(t, src.Publish(
		Observation[string]{Target: "x", Ratio: 0.49},
		Observation[string]{Target: "settle", Ratio: 1},
	))
	testutil.AssertEventually(t, func() bool { return tr.Triggered() == 1 })
	testutil.AssertEqual(t, tr.State("x"), StatePending)

	// 50% crosses.
	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "x", Ratio: 0.5}))
	testutil.AssertEventually(t, func() bool { return tracker.CallCount() == 2 })
	testutil.AssertEqual(t, tr.State("x"), StateTriggered)
	testutil.AssertEqual(t, tracker.Value().(string), "x")
}

func TestReobserveIsNoOp(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()

	tracker := testutil.NewCallbackTracker()
	tr := New[string](src, func(id string) { tracker.Mark(id) })
	defer tr.Close()

	testutil.AssertNoError(t, tr.Observe("a"))
	testutil.AssertNoError(t, tr.Observe("a"))
	testutil.AssertEqual(t, tr.Pending(), 1)

	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "a", Ratio: 1}))
	testutil.AssertEventually(t, func() bool { return tr.Triggered() == 1 })

	// Observing a triggered target does not resurrect it.
	testutil.AssertNoError(t, tr.Observe("a"))
	testutil.AssertEqual(t, tr.Pending(), 0)
	testutil.AssertEqual(t, tr.State("a"), StateTriggered)
	testutil.AssertEventually(t, func() bool { return src.Watching() == 0 })
	tracker.AssertCallCount(t, 1)
}

func TestDisabledTrigger(t *testing.T) {
	tracker := testutil.NewCallbackTracker()
	tr := New[string](nil, func(id string) { tracker.Mark(id) })
	defer tr.Close()

	testutil.AssertEqual(t, tr.Enabled(), false)

	// Observing without a source is a silent no-op, never an error.
	testutil.AssertNoError(t, tr.Observe("hero", "footer"))
	testutil.AssertEqual(t, tr.Pending(), 0)
	testutil.AssertEqual(t, tr.State("hero"), StateUnknown)
	tracker.AssertNotCalled(t)
}

func TestObserveAfterClose(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()

	tr := New[string](src, func(string) {})
	testutil.AssertNoError(t, tr.Close())

	err := tr.Observe("late")
	testutil.AssertError(t, err)
	if !errors.Is(err, pferrors.ErrClosed) {
		t.Errorf("want ErrClosed, got %v", err)
	}
}

func TestCloseUnwatchesPending(t *testing.T) {
	src := NewPush[string]()
	defer src.Close()

	tr := New[string](src, func(string) {})
	testutil.AssertNoError(t, tr.Observe("a", "b", "c"))
	testutil.AssertEqual(t, src.Watching(), 3)

	testutil.AssertNoError(t, src.Publish(Observation[string]{Target: "a", Ratio: 1}))
	testutil.AssertEventually(t, func() bool { return tr.Triggered() == 1 })

	testutil.AssertNoError(t, tr.Close())
	testutil.AssertEventually(t, func() bool { return src.Watching() == 0 })

	// Triggered history survives; pending targets are forgotten.
	testutil.AssertEqual(t, tr.Pending(), 0)
	testutil.AssertEqual(t, tr.Triggered(), 1)
	testutil.AssertEqual(t, tr.State("a"), StateTriggered)
	testutil.AssertEqual(t, tr.State("b"), StateUnknown)

	// Idempotent, and the source stays open for its owner.
	testutil.AssertNoError(t, tr.Close())
	testutil.AssertNoError(t, src.Publish())
}

func TestStateString(t *testing.T) {
	testutil.AssertEqual(t, StateUnknown.String(), "unknown")
	testutil.AssertEqual(t, StatePending.String(), "pending")
	testutil.AssertEqual(t, StateTriggered.String(), "triggered")
}
