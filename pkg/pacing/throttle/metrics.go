package throttle

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// MetricsThrottler wraps a Throttler with Prometheus metrics collection.
type MetricsThrottler[T any] struct {
	throttler Throttler[T]
	name      string
	registry  *metrics.Registry
	enabled   bool

	mu      sync.Mutex
	lastRun time.Time
	ran     bool
}

// NewWithMetrics creates a new throttler with metrics enabled.
func NewWithMetrics[T any](action func(T), limit time.Duration, name string) Throttler[T] {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config[T]{
		Action: action,
		Limit:  limit,
		Clock:  clock.SystemClock{},
	}, name, config)
}

// NewWithConfigAndMetrics creates a new throttler with custom config and metrics.
func NewWithConfigAndMetrics[T any](config Config[T], name string, metricsConfig metrics.Config) Throttler[T] {
	baseThrottler := NewWithConfig(config)

	if !metricsConfig.Enabled {
		return baseThrottler
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	return &MetricsThrottler[T]{
		throttler: baseThrottler,
		name:      name,
		registry:  registry,
		enabled:   true,
	}
}

// Trigger runs the action if no cooldown is active.
func (mt *MetricsThrottler[T]) Trigger(value T) bool {
	if mt.enabled {
		mt.registry.PacerTriggers.WithLabelValues("throttle", mt.name).Inc()
	}

	ran := mt.throttler.Trigger(value)

	if mt.enabled {
		if ran {
			mt.registry.PacerInvocations.WithLabelValues("throttle", mt.name).Inc()
			mt.registry.PacerPending.WithLabelValues("throttle", mt.name).Set(1)
			mt.observeGap()
		} else {
			mt.registry.PacerSuppressed.WithLabelValues("throttle", mt.name, "cooldown").Inc()
		}
	}

	return ran
}

// Cancel clears an active cooldown.
func (mt *MetricsThrottler[T]) Cancel() bool {
	canceled := mt.throttler.Cancel()

	if mt.enabled && canceled {
		mt.registry.PacerPending.WithLabelValues("throttle", mt.name).Set(0)
	}

	return canceled
}

// Cooling reports whether a cooldown is currently active.
func (mt *MetricsThrottler[T]) Cooling() bool {
	cooling := mt.throttler.Cooling()

	if mt.enabled {
		value := 0.0
		if cooling {
			value = 1.0
		}

		mt.registry.PacerPending.WithLabelValues("throttle", mt.name).Set(value)
	}

	return cooling
}

// Remaining returns the time left on the active cooldown.
func (mt *MetricsThrottler[T]) Remaining() time.Duration {
	return mt.throttler.Remaining()
}

// Limit returns the configured cooldown duration.
func (mt *MetricsThrottler[T]) Limit() time.Duration {
	return mt.throttler.Limit()
}

// observeGap records the wall-clock gap between consecutive invocations.
func (mt *MetricsThrottler[T]) observeGap() {
	mt.mu.Lock()
	now := time.Now()
	if mt.ran {
		mt.registry.PacerDelay.WithLabelValues("throttle", mt.name).Observe(now.Sub(mt.lastRun).Seconds())
	}
	mt.ran = true
	mt.lastRun = now
	mt.mu.Unlock()
}

// EnableMetrics enables metrics collection.
func (mt *MetricsThrottler[T]) EnableMetrics(config metrics.Config) error {
	mt.enabled = config.Enabled

	if config.Registry != nil {
		mt.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mt *MetricsThrottler[T]) DisableMetrics() {
	mt.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mt *MetricsThrottler[T]) MetricsEnabled() bool {
	return mt.enabled
}
