package throttle

import (
	"testing"
	"time"
)

// mustNewSafe creates a new throttler or panics on error (for benchmarks only)
func mustNewSafe(action func(int), limit time.Duration) Throttler[int] {
	th, err := NewSafe(action, limit)
	if err != nil {
		panic(err)
	}
	return th
}

// BenchmarkTriggerWinning measures triggers that always run the action
func BenchmarkTriggerWinning(b *testing.B) {
	th := mustNewSafe(func(int) {}, 0) // Zero limit: every trigger wins

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		th.Trigger(i)
	}
}

// BenchmarkTriggerDropped measures triggers dropped by an active cooldown
func BenchmarkTriggerDropped(b *testing.B) {
	th := mustNewSafe(func(int) {}, time.Hour)
	th.Trigger(0) // Start the cooldown

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		th.Trigger(i)
	}
}

// BenchmarkTriggerParallel measures dropped triggers under contention
func BenchmarkTriggerParallel(b *testing.B) {
	th := mustNewSafe(func(int) {}, time.Hour)
	th.Trigger(0)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			th.Trigger(1)
		}
	})
}

// BenchmarkCooling measures the cost of reading cooldown state
func BenchmarkCooling(b *testing.B) {
	th := mustNewSafe(func(int) {}, time.Hour)
	th.Trigger(0)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			th.Cooling()
		}
	})
}

// BenchmarkMemoryAllocation measures allocation patterns of Trigger
func BenchmarkMemoryAllocation(b *testing.B) {
	b.ReportAllocs()

	th := mustNewSafe(func(int) {}, time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		th.Trigger(i)
	}
}
