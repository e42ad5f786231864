// Package metrics provides Prometheus instrumentation for pageflow components.
//
// This package enables monitoring and observability for pageflow's pacing,
// visibility, lifecycle, and typewriter components through Prometheus metrics.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - Pacing operations (triggers, invocations, suppressions, pending state, realized delays)
//   - Visibility triggers (targets watched, reveals fired, observations consumed and dropped)
//   - Page lifecycle transitions (ready, fonts, document visibility)
//   - Typewriter animation (frames emitted, word-list cycles)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Debouncer with metrics
//	search := debounce.NewWithMetrics(runSearch, 300*time.Millisecond, "search_input")
//
//	// Throttler with metrics
//	scroll := throttle.NewWithMetrics(restyleHeader, 16*time.Millisecond, "scroll_handler")
//
//	// Visibility trigger with metrics
//	reveal := visibility.NewWithMetrics(source, animateIn, "section_reveal")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	search := debounce.NewWithConfigAndMetrics(
//		debounce.Config[string]{Action: runSearch, Wait: 300 * time.Millisecond},
//		"search_input",
//		config,
//	)
//
// # Available Metrics
//
// ## Pacing Metrics
//
//   - pageflow_pacer_triggers_total: Total number of trigger calls received
//   - pageflow_pacer_invocations_total: Total number of actions actually invoked
//   - pageflow_pacer_suppressed_total: Trigger calls that did not invoke the action
//   - pageflow_pacer_pending: 1 while a timer is armed or a cooldown is active
//   - pageflow_pacer_delay_seconds: Realized quiet period or inter-invocation gap
//
// ## Visibility Metrics
//
//   - pageflow_visibility_targets_watched: Targets currently pending reveal
//   - pageflow_visibility_reveals_total: One-shot reveal actions fired
//   - pageflow_visibility_observations_total: Observations consumed
//   - pageflow_visibility_observations_dropped_total: Batches dropped on overflow
//
// ## Lifecycle Metrics
//
//   - pageflow_lifecycle_transitions_total: Page state transitions
//
// ## Typewriter Metrics
//
//   - pageflow_typewriter_frames_total: Frames emitted
//   - pageflow_typewriter_cycles_total: Completed word-list cycles
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - pacer_type: "debounce" or "throttle"
//   - pacer_name: User-provided name for the pacer instance
//   - reason: Why a trigger was suppressed ("coalesced", "cooldown", "canceled")
//   - trigger_name: User-provided name for the visibility trigger
//   - source_name: User-provided name for an observation source
//   - state, value: Lifecycle state dimension and the value it changed to
//   - writer_name: User-provided name for the typewriter instance
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	search := debounce.NewWithMetrics(runSearch, 300*time.Millisecond, "search_input")
//	search.DisableMetrics()            // Stop collecting metrics
//	search.EnableMetrics(config)       // Re-enable with new config
//	enabled := search.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Conditional metrics updates based on enabled state
package metrics
