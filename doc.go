/*
Package pageflow provides a Go library for paced page interactions with
debouncing, throttling, visibility-driven reveals, and load lifecycle
tracking.

Pacing (pkg/pacing):
  - debounce: Trailing-edge coalescing of event bursts
  - throttle: Leading-edge cooldown between invocations
  - distributed: Multi-instance gates and quiet barriers with Redis

Visibility (pkg/visibility):
  - One-shot reveal triggers driven by intersection observations

Lifecycle (pkg/lifecycle):
  - Ready and fonts-loaded latches, visibility tracking

Typewriter (pkg/typewriter):
  - Frame-based typing animation over a word list

Example usage:

	import (
		"github.com/vnykmshr/pageflow/pkg/pacing/debounce"
		"github.com/vnykmshr/pageflow/pkg/pacing/throttle"
	)

	search := debounce.New(runSearch, 300*time.Millisecond)
	recalc := throttle.New(relayout, 16*time.Millisecond)

	search.Trigger(query) // one search per typing burst
	recalc.Trigger(offset) // at most one relayout per 16ms
*/
package pageflow
