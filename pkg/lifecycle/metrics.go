package lifecycle

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// MetricsState wraps a State with Prometheus metrics collection. Transition
// counters carry no per-instance name because a process tracks one page.
type MetricsState struct {
	state    State
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a page State with metrics enabled.
func NewWithMetrics() State {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{}, config)
}

// NewWithConfigAndMetrics creates a page State with custom config and metrics.
func NewWithConfigAndMetrics(config Config, metricsConfig metrics.Config) State {
	baseState := NewWithConfig(config)

	if !metricsConfig.Enabled {
		return baseState
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsState{
		state:    baseState,
		registry: registry,
		enabled:  true,
	}
}

// MarkReady latches the page as ready.
func (ms *MetricsState) MarkReady() bool {
	transitioned := ms.state.MarkReady()

	if ms.enabled && transitioned {
		ms.registry.LifecycleTransitions.WithLabelValues("phase", "ready").Inc()
	}

	return transitioned
}

// Ready returns the ready latch channel.
func (ms *MetricsState) Ready() <-chan struct{} {
	return ms.state.Ready()
}

// Phase returns the current load phase.
func (ms *MetricsState) Phase() Phase {
	return ms.state.Phase()
}

// ReadyElapsed returns the time from construction to MarkReady.
func (ms *MetricsState) ReadyElapsed() time.Duration {
	return ms.state.ReadyElapsed()
}

// MarkFontsLoaded latches fonts as loaded.
func (ms *MetricsState) MarkFontsLoaded() bool {
	transitioned := ms.state.MarkFontsLoaded()

	if ms.enabled && transitioned {
		ms.registry.LifecycleTransitions.WithLabelValues("fonts", "loaded").Inc()
	}

	return transitioned
}

// Fonts returns the fonts latch channel.
func (ms *MetricsState) Fonts() <-chan struct{} {
	return ms.state.Fonts()
}

// FontsLoaded reports whether fonts have been marked loaded.
func (ms *MetricsState) FontsLoaded() bool {
	return ms.state.FontsLoaded()
}

// SetVisibility records a visibility change.
func (ms *MetricsState) SetVisibility(v Visibility) bool {
	changed := ms.state.SetVisibility(v)

	if ms.enabled && changed {
		ms.registry.LifecycleTransitions.WithLabelValues("visibility", v.String()).Inc()
	}

	return changed
}

// Visibility returns the current visibility.
func (ms *MetricsState) Visibility() Visibility {
	return ms.state.Visibility()
}

// Uptime returns the time since construction.
func (ms *MetricsState) Uptime() time.Duration {
	return ms.state.Uptime()
}

// EnableMetrics enables metrics collection.
func (ms *MetricsState) EnableMetrics(config metrics.Config) error {
	ms.enabled = config.Enabled

	if config.Registry != nil {
		ms.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (ms *MetricsState) DisableMetrics() {
	ms.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (ms *MetricsState) MetricsEnabled() bool {
	return ms.enabled
}
