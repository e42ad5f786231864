/*
Package visibility runs a reveal action exactly once per target, the first
time the target's visible fraction crosses a threshold.

A Trigger tracks targets through a small lifecycle: unknown until observed,
pending while watched, triggered after the reveal action has run. Triggered
is terminal; the target is unwatched and a later re-entry into view fires
nothing. This is the scroll-into-view animation pattern: each element
animates on first sight and then stays put.

Sources:

Observations come from a Source, the capability that actually measures
visibility. A frontend binds this to the platform's intersection observer;
tests and server-side callers use PushSource and feed observations by hand:

	src := visibility.NewPush[string]()
	defer src.Close()

	reveals := visibility.New(src, func(id string) {
		animateIn(id)
	})
	defer reveals.Close()

	if err := reveals.Observe("hero", "features", "footer"); err != nil {
		return err
	}

	// Later, as elements scroll into view:
	src.Publish(visibility.Observation[string]{Target: "features", Ratio: 0.4})

Reveals run on the trigger's consuming goroutine in the order observations
were delivered, one batch at a time. The threshold is inclusive: a ratio
exactly at the threshold reveals.

Thresholds and margins:

By default a target reveals at DefaultThreshold (10% visible). Configure a
different fraction, or grow the viewport with a margin so targets reveal
slightly before they scroll in:

	reveals := visibility.NewWithConfig(visibility.Config[string]{
		Source:     src,
		OnReveal:   animateIn,
		Threshold:  0.25,
		RootMargin: visibility.Margin{Bottom: 200},
	})

Degrading without a source:

A nil Source disables the trigger rather than breaking the page: Observe
succeeds as a no-op and nothing reveals. Callers can branch on Enabled to
show content immediately instead.

Buffering:

PushSource queues observation batches for the consumer. When the buffer
fills, the configured OverflowPolicy decides whether the oldest batch is
evicted (default), the newest dropped, or the publish rejected with
ErrCapacityExceeded. An OnDrop callback sees every lost batch.
*/
package visibility
