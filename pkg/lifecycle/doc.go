/*
Package lifecycle tracks a page's load state: a one-way ready latch, a
one-way fonts-loaded latch, and the current visibility.

The latches are idempotent and expose closed channels, so consumers either
check the flag or select on the channel:

	page := lifecycle.New()

	go func() {
		assets.Load()
		page.MarkReady()
	}()

	select {
	case <-page.Ready():
		startAnimations()
	case <-ctx.Done():
		return ctx.Err()
	}

MarkReady and MarkFontsLoaded report whether they performed the transition,
so exactly one caller observes true no matter how many race. Visibility is
a plain two-state toggle; SetVisibility reports actual changes and feeds the
optional OnVisibilityChange callback, the usual hook for pausing animations
while the page is hidden.

Transitions log through an optional zerolog.Logger and count into the
Prometheus registry when constructed via NewWithConfigAndMetrics.
*/
package lifecycle
