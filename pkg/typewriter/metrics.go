package typewriter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// MetricsWriter wraps a Writer with Prometheus metrics collection.
type MetricsWriter struct {
	writer   Writer
	name     string
	registry *metrics.Registry
	enabled  bool

	mu          sync.Mutex
	lastWord    int
	wrapPending bool
}

// NewWithMetrics creates a new writer with metrics enabled.
func NewWithMetrics(words []string, onFrame func(Frame), name string) Writer {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	base := DefaultConfig()
	base.Words = words
	base.OnFrame = onFrame
	return NewWithConfigAndMetrics(base, name, config)
}

// NewWithConfigAndMetrics creates a new writer with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) Writer {
	// A nil callback or an empty word list must surface as the base
	// constructor's validation error, not a panic inside the wrapped
	// callback.
	if !metricsConfig.Enabled || config.OnFrame == nil || len(config.Words) == 0 {
		return NewWithConfig(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mw := &MetricsWriter{
		name:     name,
		registry: registry,
		enabled:  true,
		lastWord: len(config.Words) - 1,
	}

	// Frames are emitted inside scheduler callbacks, so the callback is
	// wrapped before the base is constructed.
	onFrame := config.OnFrame
	config.OnFrame = func(f Frame) {
		mw.recordFrame(f)
		onFrame(f)
	}
	mw.writer = NewWithConfig(config)

	return mw
}

// Start resets the animation to the first word and begins emitting frames.
func (mw *MetricsWriter) Start() error {
	// A restart begins at the first word, so a wrap left pending by a
	// stopped run must not count as a cycle.
	mw.mu.Lock()
	mw.wrapPending = false
	mw.mu.Unlock()

	return mw.writer.Start()
}

// Stop halts the animation and reports whether it was running.
func (mw *MetricsWriter) Stop() bool {
	return mw.writer.Stop()
}

// Running reports whether the frame chain is active.
func (mw *MetricsWriter) Running() bool {
	return mw.writer.Running()
}

// Text returns the text of the most recently emitted frame.
func (mw *MetricsWriter) Text() string {
	return mw.writer.Text()
}

// recordFrame counts emitted frames and completed word-list cycles. The
// frame after the last word's fully erased frame is always the first
// frame of a new cycle.
func (mw *MetricsWriter) recordFrame(f Frame) {
	mw.mu.Lock()
	wrapped := mw.wrapPending
	mw.wrapPending = f.Word == mw.lastWord && f.Phase == PhaseDeleting && f.Text == ""
	mw.mu.Unlock()

	if !mw.enabled {
		return
	}

	mw.registry.TypewriterFrames.WithLabelValues(mw.name).Inc()
	if wrapped {
		mw.registry.TypewriterCycles.WithLabelValues(mw.name).Inc()
	}
}

// EnableMetrics enables metrics collection.
func (mw *MetricsWriter) EnableMetrics(config metrics.Config) error {
	mw.enabled = config.Enabled

	if config.Registry != nil {
		mw.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mw *MetricsWriter) DisableMetrics() {
	mw.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mw *MetricsWriter) MetricsEnabled() bool {
	return mw.enabled
}
