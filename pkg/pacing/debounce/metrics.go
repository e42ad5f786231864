package debounce

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/common/clock"
	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// MetricsDebouncer wraps a Debouncer with Prometheus metrics collection.
type MetricsDebouncer[T any] struct {
	debouncer Debouncer[T]
	name      string
	registry  *metrics.Registry
	enabled   bool

	mu         sync.Mutex
	pending    bool
	burstStart time.Time
}

// NewWithMetrics creates a new debouncer with metrics enabled.
func NewWithMetrics[T any](action func(T), wait time.Duration, name string) Debouncer[T] {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config[T]{
		Action:    action,
		Wait:      wait,
		Scheduler: clock.SystemScheduler{},
	}, name, config)
}

// NewWithConfigAndMetrics creates a new debouncer with custom config and metrics.
func NewWithConfigAndMetrics[T any](config Config[T], name string, metricsConfig metrics.Config) Debouncer[T] {
	// A nil action must surface as the base constructor's validation
	// error, not a panic inside the wrapped action.
	if !metricsConfig.Enabled || config.Action == nil {
		return NewWithConfig(config)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	md := &MetricsDebouncer[T]{
		name:     name,
		registry: registry,
		enabled:  true,
	}

	// Invocations happen inside the debouncer's timer callback, so the
	// action is wrapped before the base is constructed.
	action := config.Action
	config.Action = func(value T) {
		md.recordInvocation()
		action(value)
	}
	md.debouncer = NewWithConfig(config)

	return md
}

// Trigger records the value and restarts the quiet timer.
func (md *MetricsDebouncer[T]) Trigger(value T) {
	if md.enabled {
		md.mu.Lock()
		md.registry.PacerTriggers.WithLabelValues("debounce", md.name).Inc()

		if md.pending {
			md.registry.PacerSuppressed.WithLabelValues("debounce", md.name, "coalesced").Inc()
		} else {
			md.pending = true
			md.burstStart = time.Now()
		}

		md.registry.PacerPending.WithLabelValues("debounce", md.name).Set(1)
		md.mu.Unlock()
	}

	md.debouncer.Trigger(value)
}

// Cancel drops any pending invocation.
func (md *MetricsDebouncer[T]) Cancel() bool {
	canceled := md.debouncer.Cancel()

	if md.enabled && canceled {
		md.mu.Lock()
		md.pending = false
		md.registry.PacerSuppressed.WithLabelValues("debounce", md.name, "canceled").Inc()
		md.registry.PacerPending.WithLabelValues("debounce", md.name).Set(0)
		md.mu.Unlock()
	}

	return canceled
}

// Flush runs any pending invocation immediately.
func (md *MetricsDebouncer[T]) Flush() bool {
	// The wrapped action records the invocation.
	return md.debouncer.Flush()
}

// Pending reports whether an invocation is currently scheduled.
func (md *MetricsDebouncer[T]) Pending() bool {
	pending := md.debouncer.Pending()

	if md.enabled {
		value := 0.0
		if pending {
			value = 1.0
		}

		md.registry.PacerPending.WithLabelValues("debounce", md.name).Set(value)
	}

	return pending
}

// Wait returns the configured quiet period.
func (md *MetricsDebouncer[T]) Wait() time.Duration {
	return md.debouncer.Wait()
}

func (md *MetricsDebouncer[T]) recordInvocation() {
	if !md.enabled {
		return
	}

	md.mu.Lock()
	if md.pending {
		md.registry.PacerDelay.WithLabelValues("debounce", md.name).Observe(time.Since(md.burstStart).Seconds())
		md.pending = false
	}

	md.registry.PacerInvocations.WithLabelValues("debounce", md.name).Inc()
	md.registry.PacerPending.WithLabelValues("debounce", md.name).Set(0)
	md.mu.Unlock()
}

// EnableMetrics enables metrics collection.
func (md *MetricsDebouncer[T]) EnableMetrics(config metrics.Config) error {
	md.enabled = config.Enabled

	if config.Registry != nil {
		md.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (md *MetricsDebouncer[T]) DisableMetrics() {
	md.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (md *MetricsDebouncer[T]) MetricsEnabled() bool {
	return md.enabled
}
