package visibility

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// MetricsTrigger wraps a Trigger with Prometheus metrics collection.
type MetricsTrigger[T comparable] struct {
	trigger  Trigger[T]
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new trigger with metrics enabled.
func NewWithMetrics[T comparable](source Source[T], onReveal func(T), name string) Trigger[T] {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config[T]{
		Source:   source,
		OnReveal: onReveal,
	}, name, config)
}

// NewWithConfigAndMetrics creates a new trigger with custom config and metrics.
func NewWithConfigAndMetrics[T comparable](config Config[T], name string, metricsConfig metrics.Config) Trigger[T] {
	// A nil reveal action must surface as the base constructor's
	// validation error, not a panic inside the wrapped action.
	if !metricsConfig.Enabled || config.OnReveal == nil {
		return NewWithConfig(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mt := &MetricsTrigger[T]{
		name:     name,
		registry: registry,
		enabled:  true,
	}

	// Reveals run on the trigger's consuming goroutine, so the action is
	// wrapped before the base is constructed.
	onReveal := config.OnReveal
	config.OnReveal = func(target T) {
		mt.recordReveal()
		onReveal(target)
	}
	mt.trigger = NewWithConfig(config)

	return mt
}

// Observe starts watching targets.
func (mt *MetricsTrigger[T]) Observe(targets ...T) error {
	if mt.enabled {
		mt.registry.VisibilityObservations.WithLabelValues(mt.name).Add(float64(len(targets)))
	}

	err := mt.trigger.Observe(targets...)

	if mt.enabled {
		mt.registry.VisibilityWatched.WithLabelValues(mt.name).Set(float64(mt.trigger.Pending()))
	}

	return err
}

// State returns the reveal lifecycle state of target.
func (mt *MetricsTrigger[T]) State(target T) State {
	return mt.trigger.State(target)
}

// Pending returns the number of targets awaiting their reveal.
func (mt *MetricsTrigger[T]) Pending() int {
	pending := mt.trigger.Pending()

	if mt.enabled {
		mt.registry.VisibilityWatched.WithLabelValues(mt.name).Set(float64(pending))
	}

	return pending
}

// Triggered returns the number of targets whose reveal has run.
func (mt *MetricsTrigger[T]) Triggered() int {
	return mt.trigger.Triggered()
}

// Enabled reports whether an observation source is present.
func (mt *MetricsTrigger[T]) Enabled() bool {
	return mt.trigger.Enabled()
}

// Close stops consuming observations and unwatches pending targets.
func (mt *MetricsTrigger[T]) Close() error {
	err := mt.trigger.Close()

	if mt.enabled {
		mt.registry.VisibilityWatched.WithLabelValues(mt.name).Set(0)
	}

	return err
}

func (mt *MetricsTrigger[T]) recordReveal() {
	if !mt.enabled {
		return
	}

	mt.registry.VisibilityReveals.WithLabelValues(mt.name).Inc()
	mt.registry.VisibilityWatched.WithLabelValues(mt.name).Dec()
}

// EnableMetrics enables metrics collection.
func (mt *MetricsTrigger[T]) EnableMetrics(config metrics.Config) error {
	mt.enabled = config.Enabled

	if config.Registry != nil {
		mt.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mt *MetricsTrigger[T]) DisableMetrics() {
	mt.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mt *MetricsTrigger[T]) MetricsEnabled() bool {
	return mt.enabled
}

// NewPushWithMetrics creates a PushSource whose overflow drops are counted
// under the given source name. The caller's OnDrop, if any, still runs.
func NewPushWithMetrics[T comparable](config PushConfig[T], name string, metricsConfig metrics.Config) *PushSource[T] {
	if !metricsConfig.Enabled {
		return NewPushWithConfig(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	onDrop := config.OnDrop
	config.OnDrop = func(batch []Observation[T]) {
		registry.VisibilityDropped.WithLabelValues(name).Inc()
		if onDrop != nil {
			onDrop(batch)
		}
	}

	return NewPushWithConfig(config)
}
