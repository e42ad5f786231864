package visibility

// Observation reports one threshold crossing for a watched target: the
// target and the fraction of it visible at the time of the crossing.
type Observation[T comparable] struct {
	Target T
	Ratio  float64
}

// Margin grows (positive) or shrinks (negative) the viewport edges used for
// intersection, in pixels. A positive Bottom makes targets count as visible
// shortly before they scroll into view.
type Margin struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Options carries the per-target watch parameters a Source applies when
// deciding whether a crossing occurred.
type Options struct {
	// Threshold is the visible fraction, between 0 and 1, at which the
	// source reports a crossing.
	Threshold float64

	// RootMargin offsets the viewport edges before intersection is
	// computed.
	RootMargin Margin
}

// Source is the capability that produces visibility observations. A real
// frontend binds this to an IntersectionObserver; tests and server-side
// callers use PushSource.
//
// Implementations deliver observations in batches on the Events channel,
// preserving order within a batch, and close the channel from Close.
type Source[T comparable] interface {
	// Watch starts observing target with the given options.
	Watch(target T, opts Options) error

	// Unwatch stops observing target. Unwatching an unknown target is a
	// no-op.
	Unwatch(target T) error

	// Events returns the stream of observation batches.
	Events() <-chan []Observation[T]

	// Close stops the source and closes the Events channel.
	Close() error
}
