package typewriter_test

import (
	"fmt"
	"time"

	"github.com/vnykmshr/pageflow/pkg/typewriter"
)

// Example demonstrates the frame stream for a single word
func Example() {
	done := make(chan struct{})

	config := typewriter.DefaultConfig()
	config.Words = []string{"hi"}
	config.TypeDelay = time.Millisecond
	config.DeleteDelay = time.Millisecond
	config.HoldDelay = time.Millisecond
	config.Loop = false
	config.OnFrame = func(f typewriter.Frame) {
		fmt.Printf("%s %q\n", f.Phase, f.Text)
		if f.Phase == typewriter.PhaseHolding {
			// Loop is off, so the held last word is the final frame
			close(done)
		}
	}

	w := typewriter.NewWithConfig(config)
	_ = w.Start()
	<-done

	// Output:
	// typing ""
	// typing "h"
	// holding "hi"
}

// Example_looping demonstrates wrapping from the last word back to the first
func Example_looping() {
	frames := make(chan typewriter.Frame, 32)

	config := typewriter.DefaultConfig()
	config.Words = []string{"a", "b"}
	config.TypeDelay = time.Millisecond
	config.DeleteDelay = time.Millisecond
	config.HoldDelay = time.Millisecond
	config.OnFrame = func(f typewriter.Frame) { frames <- f }

	w := typewriter.NewWithConfig(config)
	_ = w.Start()
	defer w.Stop()

	for i := 0; i < 6; i++ {
		f := <-frames
		fmt.Printf("word %d %s %q\n", f.Word, f.Phase, f.Text)
	}

	// Output:
	// word 0 typing ""
	// word 0 holding "a"
	// word 0 deleting ""
	// word 1 holding "b"
	// word 1 deleting ""
	// word 0 holding "a"
}

// Example_configuration demonstrates custom pacing and validation
func Example_configuration() {
	// Zero delays fall back to the package defaults
	w, err := typewriter.NewWithConfigSafe(typewriter.Config{
		Words:   []string{"pageflow"},
		OnFrame: func(typewriter.Frame) {},
	})
	fmt.Println("err:", err)
	fmt.Println("running:", w.Running())

	_, err = typewriter.NewWithConfigSafe(typewriter.Config{Words: []string{"pageflow"}})
	fmt.Println("missing callback:", err != nil)

	// Output:
	// err: <nil>
	// running: false
	// missing callback: true
}
