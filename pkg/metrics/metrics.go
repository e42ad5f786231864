// Package metrics provides Prometheus instrumentation for pageflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for pageflow components.
type Registry struct {
	// Pacing Metrics (debounce, throttle, distributed gate/barrier)
	PacerTriggers    *prometheus.CounterVec
	PacerInvocations *prometheus.CounterVec
	PacerSuppressed  *prometheus.CounterVec
	PacerPending     *prometheus.GaugeVec
	PacerDelay       *prometheus.HistogramVec

	// Visibility Metrics
	VisibilityWatched      *prometheus.GaugeVec
	VisibilityReveals      *prometheus.CounterVec
	VisibilityObservations *prometheus.CounterVec
	VisibilityDropped      *prometheus.CounterVec

	// Lifecycle Metrics
	LifecycleTransitions *prometheus.CounterVec

	// Typewriter Metrics
	TypewriterFrames *prometheus.CounterVec
	TypewriterCycles *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by pageflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Pacing Metrics
		PacerTriggers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "pacer",
				Name:      "triggers_total",
				Help:      "Total number of trigger calls received by pacers",
			},
			[]string{"pacer_type", "pacer_name"},
		),

		PacerInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "pacer",
				Name:      "invocations_total",
				Help:      "Total number of actions actually invoked by pacers",
			},
			[]string{"pacer_type", "pacer_name"},
		),

		PacerSuppressed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "pacer",
				Name:      "suppressed_total",
				Help:      "Total number of trigger calls that did not invoke the action",
			},
			[]string{"pacer_type", "pacer_name", "reason"},
		),

		PacerPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pageflow",
				Subsystem: "pacer",
				Name:      "pending",
				Help:      "1 while a debounce timer is armed or a throttle cooldown is active",
			},
			[]string{"pacer_type", "pacer_name"},
		),

		PacerDelay: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pageflow",
				Subsystem: "pacer",
				Name:      "delay_seconds",
				Help:      "Realized quiet period (debounce) or gap between invocations (throttle)",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pacer_type", "pacer_name"},
		),

		// Visibility Metrics
		VisibilityWatched: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pageflow",
				Subsystem: "visibility",
				Name:      "targets_watched",
				Help:      "Number of targets currently pending reveal",
			},
			[]string{"trigger_name"},
		),

		VisibilityReveals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "visibility",
				Name:      "reveals_total",
				Help:      "Total number of one-shot reveal actions fired",
			},
			[]string{"trigger_name"},
		),

		VisibilityObservations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "visibility",
				Name:      "observations_total",
				Help:      "Total number of targets submitted for observation",
			},
			[]string{"trigger_name"},
		),

		VisibilityDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "visibility",
				Name:      "observations_dropped_total",
				Help:      "Total number of observation batches dropped by overflowing sources",
			},
			[]string{"source_name"},
		),

		// Lifecycle Metrics
		LifecycleTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "Total number of page state transitions",
			},
			[]string{"state", "value"},
		),

		// Typewriter Metrics
		TypewriterFrames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "typewriter",
				Name:      "frames_total",
				Help:      "Total number of typewriter frames emitted",
			},
			[]string{"writer_name"},
		),

		TypewriterCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pageflow",
				Subsystem: "typewriter",
				Name:      "cycles_total",
				Help:      "Total number of completed word-list cycles",
			},
			[]string{"writer_name"},
		),
	}
}
