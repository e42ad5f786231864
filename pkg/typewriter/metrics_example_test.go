package typewriter

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/pageflow/pkg/metrics"
)

// Example_metricsBasic demonstrates basic metrics collection for a writer.
func Example_metricsBasic() {
	// Create a separate registry to avoid conflicts
	customRegistry := prometheus.NewRegistry()
	metricsConfig := metrics.Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	done := make(chan struct{})
	config := Config{
		Words:       []string{"hi"},
		TypeDelay:   time.Millisecond,
		DeleteDelay: time.Millisecond,
		HoldDelay:   time.Millisecond,
		OnFrame: func(f Frame) {
			if f.Phase == PhaseHolding {
				close(done)
			}
		},
	}

	w := NewWithConfigAndMetrics(config, "banner", metricsConfig)
	_ = w.Start()

	// Wait for the word to finish typing, then halt; the wrapper counted
	// every emitted frame
	<-done
	w.Stop()

	fmt.Println("running:", w.Running())
	fmt.Println("text:", w.Text())

	// Output:
	// running: false
	// text: hi
}

// Example_metricsConfiguration demonstrates different metrics configurations.
func Example_metricsConfiguration() {
	// Writer with metrics disabled falls back to the plain implementation
	disabledConfig := metrics.Config{
		Enabled: false,
	}
	plain := NewWithConfigAndMetrics(Config{
		Words:   []string{"a"},
		OnFrame: func(Frame) {},
	}, "disabled_writer", disabledConfig)

	// Writer with metrics enabled on a separate registry
	customRegistry := prometheus.NewRegistry()
	enabledConfig := metrics.Config{
		Enabled:  true,
		Registry: customRegistry,
	}
	instrumented := NewWithConfigAndMetrics(Config{
		Words:   []string{"a"},
		OnFrame: func(Frame) {},
	}, "enabled_writer", enabledConfig)

	if mw, ok := instrumented.(*MetricsWriter); ok {
		fmt.Printf("instrumented has metrics: %v\n", mw.MetricsEnabled())
	}

	if _, ok := plain.(*MetricsWriter); !ok {
		fmt.Println("plain has metrics: false")
	}

	// Output:
	// instrumented has metrics: true
	// plain has metrics: false
}
