// Package distributed coordinates pacing decisions across process
// instances using Redis as the coordination backend.
//
// The in-process pacers in pkg/pacing answer "has this instance acted
// recently"; this package answers the same question for a fleet. Both
// primitives put the decision in Redis behind a single Lua script, so
// checking and recording are atomic no matter how many instances race.
//
// # Gate
//
// A Gate is a leading-edge throttle shared by every instance: the first
// caller in a window wins and everyone else loses until the window
// expires. Typical use is N replicas watching one upstream where only
// one should send the refresh:
//
//	gate, err := distributed.NewGate(distributed.GateConfig{
//		Redis:  rdb,
//		Key:    "refresh_catalog",
//		Window: 30 * time.Second,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gate.Close()
//
//	if gate.Allow(ctx) {
//		refreshCatalog()
//	}
//
// With FallbackToLocal enabled, Redis outages degrade each instance to
// its own local leading-edge window instead of blocking everyone.
//
// # Barrier
//
// A Barrier is a quiet-period barrier shared by every instance:
// producers Touch on every event, and Wait returns once a full window
// passes with no touches from anyone. Typical use is coalescing a burst
// of change events from many producers into one rebuild:
//
//	barrier, err := distributed.NewBarrier(distributed.BarrierConfig{
//		Redis:  rdb,
//		Key:    "content_changes",
//		Window: 2 * time.Second,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// producers, on every change:
//	_ = barrier.Touch(ctx)
//
//	// the consumer:
//	if err := barrier.Wait(ctx); err == nil {
//		rebuild()
//	}
//
// Quiet deadlines are computed from the Redis server clock inside Lua,
// so instances with skewed clocks agree on when the quiet period ends.
//
// # Failure handling
//
// Redis failures surface as *RedisError, which unwraps to the underlying
// client error. Configuration problems surface as *ConfigError at
// construction. NewGate requires a reachable Redis to register the
// instance; NewBarrier defers Redis work to the first operation.
package distributed
