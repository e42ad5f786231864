/*
Package typewriter animates a list of words as a typing effect, emitting
frames through a callback instead of rendering anywhere itself.

A Writer types each word one rune at a time, holds the complete word on
display, erases it one rune at a time, and moves to the next word,
wrapping around when looping is enabled. Every state change is delivered
as a Frame to the configured callback; the callback returns before the
next frame's timer is armed, so frames never overlap. Words are handled
as runes, so multi-byte text types one character at a time.

Basic Usage:

	w := typewriter.New([]string{"engineer", "writer", "gardener"}, func(f typewriter.Frame) {
		banner.SetText(f.Text)
	})

	_ = w.Start()
	defer w.Stop()

Timing flows through the clock.Scheduler capability, so tests can drive
the animation frame by frame with a fake scheduler.
*/
package typewriter
