package throttle

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// Example_metricsBasic demonstrates basic metrics collection for a throttler.
func Example_metricsBasic() {
	// Create a separate registry to avoid conflicts
	customRegistry := prometheus.NewRegistry()
	metricsConfig := metrics.Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	invocations := 0
	th := NewWithConfigAndMetrics(Config[int]{
		Action: func(int) { invocations++ },
		Limit:  time.Minute,
	}, "scroll_handler", metricsConfig)

	// Only the first call in the window runs; the rest count as suppressed
	for i := 0; i < 5; i++ {
		th.Trigger(i)
	}

	fmt.Printf("invocations: %d\n", invocations)
	fmt.Printf("cooling: %v\n", th.Cooling())

	// Output:
	// invocations: 1
	// cooling: true
}

// Example_metricsConfiguration demonstrates different metrics configurations.
func Example_metricsConfiguration() {
	// Throttler with metrics disabled falls back to the plain implementation
	disabledConfig := metrics.Config{
		Enabled: false,
	}
	plain := NewWithConfigAndMetrics(Config[int]{
		Action: func(int) {},
		Limit:  time.Second,
	}, "disabled_throttler", disabledConfig)

	// Throttler with metrics enabled on a separate registry
	customRegistry := prometheus.NewRegistry()
	enabledConfig := metrics.Config{
		Enabled:  true,
		Registry: customRegistry,
	}
	instrumented := NewWithConfigAndMetrics(Config[int]{
		Action: func(int) {},
		Limit:  time.Second,
	}, "enabled_throttler", enabledConfig)

	if mt, ok := instrumented.(*MetricsThrottler[int]); ok {
		fmt.Printf("instrumented has metrics: %v\n", mt.MetricsEnabled())
	}

	if _, ok := plain.(*MetricsThrottler[int]); !ok {
		fmt.Println("plain has metrics: false")
	}

	// Output:
	// instrumented has metrics: true
	// plain has metrics: false
}
