package throttle_test

import (
	"fmt"
	"time"

	"github.com/vnykmshr/pageflow/pkg/pacing/throttle"
)

// Example demonstrates leading-edge throttling of a burst
func Example() {
	// Render at most once per minute; later calls in the window are dropped
	render := throttle.New(func(px int) {
		fmt.Println("render at", px)
	}, time.Minute)

	for _, px := range []int{120, 240, 360} {
		fmt.Printf("scroll to %d, ran: %v\n", px, render.Trigger(px))
	}

	// Output:
	// render at 120
	// scroll to 120, ran: true
	// scroll to 240, ran: false
	// scroll to 360, ran: false
}

// Example_cancel demonstrates clearing a cooldown early
func Example_cancel() {
	ping := throttle.New(func(target string) {
		fmt.Println("ping", target)
	}, time.Minute)

	ping.Trigger("origin")
	fmt.Println("cooling:", ping.Cooling())

	// Clearing the cooldown lets the next call through immediately
	ping.Cancel()
	ping.Trigger("origin")

	// Output:
	// ping origin
	// cooling: true
	// ping origin
}

// Example_configuration demonstrates advanced configuration
func Example_configuration() {
	config := throttle.Config[string]{
		Action: func(string) {},
		Limit:  16 * time.Millisecond, // roughly one invocation per frame
	}

	frames, err := throttle.NewWithConfigSafe(config)
	if err != nil {
		panic(fmt.Sprintf("Failed to create throttler: %v", err))
	}

	fmt.Println("limit:", frames.Limit())
	fmt.Println("cooling:", frames.Cooling())

	// Output:
	// limit: 16ms
	// cooling: false
}
