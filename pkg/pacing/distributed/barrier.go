package distributed

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	pfcontext "github.com/vnykmshr/pageflow/pkg/common/context"
)

// Barrier coordinates a quiet-period barrier across process instances:
// producers Touch on every event, and Wait returns once a full window
// passes with no touches anywhere.
type Barrier interface {
	// Touch marks activity, pushing the quiet deadline one window out
	// for every waiter.
	Touch(ctx context.Context) error

	// Wait blocks until a full window passes with no touches, polling
	// at the configured refresh interval. Context cancellation aborts
	// with the context's error.
	Wait(ctx context.Context) error

	// Quiet reports whether the quiet deadline has passed, without blocking.
	Quiet(ctx context.Context) (bool, error)

	// Stats returns current barrier statistics.
	Stats(ctx context.Context) (*BarrierStats, error)

	// Reset clears the barrier state (useful for testing).
	Reset(ctx context.Context) error

	// Close releases local resources. The barrier keeps no per-instance
	// state in Redis, so there is nothing to unregister.
	Close() error
}

// BarrierStats holds distributed barrier statistics.
type BarrierStats struct {
	Window    time.Duration
	Touches   int64
	Deadline  time.Time
	Remaining time.Duration
	Quiet     bool
}

// BarrierConfig holds configuration for a distributed barrier.
type BarrierConfig struct {
	// Redis client for coordination
	Redis redis.UniversalClient

	// Key is the logical barrier name
	Key string

	// Window is the quiet period that must pass untouched before Wait
	// returns. Must be at least one millisecond.
	Window time.Duration

	// RefreshInterval is the Wait polling cadence (defaults to a quarter
	// of Window, capped at 50ms, floored at 5ms)
	RefreshInterval time.Duration

	// KeyPrefix namespaces the barrier's Redis keys (defaults to
	// "pageflow:barrier")
	KeyPrefix string

	// RedisTimeout is the timeout for Redis operations (defaults to 5s)
	RedisTimeout time.Duration
}

// DefaultBarrierConfig returns a default distributed barrier configuration.
func DefaultBarrierConfig() BarrierConfig {
	return BarrierConfig{
		KeyPrefix:    "pageflow:barrier",
		RedisTimeout: 5 * time.Second,
	}
}

// barrier implements Barrier on Redis. Deadlines are computed from the
// Redis server clock inside Lua, so instances with skewed clocks agree
// on when the quiet period ends. The stored deadline is authoritative;
// the key's TTL only garbage-collects it shortly after it passes.
type barrier struct {
	config BarrierConfig
	keys   map[string]string

	touchScript *redis.Script
	quietScript *redis.Script
}

// NewBarrier creates a distributed barrier. It does not touch Redis
// until the first operation.
func NewBarrier(config BarrierConfig) (Barrier, error) {
	if config.Redis == nil {
		return nil, &ConfigError{"redis client is required"}
	}
	if config.Key == "" {
		return nil, &ConfigError{"key is required"}
	}
	if config.Window < time.Millisecond {
		return nil, &ConfigError{"window must be at least one millisecond"}
	}
	if config.RefreshInterval < 0 {
		return nil, &ConfigError{"refresh interval must be positive"}
	}

	config = applyBarrierDefaults(config)

	return &barrier{
		config:      config,
		keys:        redisKeys(config.KeyPrefix, config.Key),
		touchScript: redis.NewScript(luaBarrierTouch),
		quietScript: redis.NewScript(luaBarrierRemaining),
	}, nil
}

// applyBarrierDefaults sets default values for unspecified config fields.
func applyBarrierDefaults(config BarrierConfig) BarrierConfig {
	if config.RefreshInterval == 0 {
		interval := config.Window / 4
		if interval > 50*time.Millisecond {
			interval = 50 * time.Millisecond
		}
		if interval < 5*time.Millisecond {
			interval = 5 * time.Millisecond
		}
		config.RefreshInterval = interval
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "pageflow:barrier"
	}
	if config.RedisTimeout == 0 {
		config.RedisTimeout = 5 * time.Second
	}
	return config
}

func (b *barrier) Touch(ctx context.Context) error {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, b.config.RedisTimeout)
	defer cancel()

	err := b.touchScript.Run(ctx, b.config.Redis, []string{
		b.keys["deadline"],
		b.keys["stats"],
	},
		b.config.Window.Milliseconds(),
		(b.config.Window + barrierKeyGrace).Milliseconds(),
		(10 * b.config.Window).Milliseconds(),
	).Err()

	if err != nil {
		return &RedisError{"touch", err}
	}
	return nil
}

func (b *barrier) Wait(ctx context.Context) error {
	ticker := time.NewTicker(b.config.RefreshInterval)
	defer ticker.Stop()

	for {
		quiet, err := b.Quiet(ctx)
		if err != nil {
			return err
		}
		if quiet {
			return nil
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *barrier) Quiet(ctx context.Context) (bool, error) {
	remaining, err := b.remaining(ctx)
	if err != nil {
		return false, err
	}
	return remaining == 0, nil
}

// remaining returns how long until the quiet deadline by the Redis
// server clock, or zero when the barrier is quiet.
func (b *barrier) remaining(ctx context.Context) (time.Duration, error) {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, b.config.RedisTimeout)
	defer cancel()

	result, err := b.quietScript.Run(ctx, b.config.Redis, []string{
		b.keys["deadline"],
	}).Result()
	if err != nil {
		return 0, &RedisError{"quiet", err}
	}

	ms, ok := result.(int64)
	if !ok || ms < 0 {
		return 0, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (b *barrier) Stats(ctx context.Context) (*BarrierStats, error) {
	remaining, err := b.remaining(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, b.config.RedisTimeout)
	defer cancel()

	pipe := b.config.Redis.Pipeline()
	statsCmd := pipe.HGetAll(ctx, b.keys["stats"])
	deadlineCmd := pipe.Get(ctx, b.keys["deadline"])

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, &RedisError{"stats", err}
	}

	statsMap := statsCmd.Val()
	touches, _ := strconv.ParseInt(statsMap["touches"], 10, 64)

	var deadline time.Time
	if ms, err := strconv.ParseInt(deadlineCmd.Val(), 10, 64); err == nil {
		deadline = time.UnixMilli(ms)
	}

	return &BarrierStats{
		Window:    b.config.Window,
		Touches:   touches,
		Deadline:  deadline,
		Remaining: remaining,
		Quiet:     remaining == 0,
	}, nil
}

func (b *barrier) Reset(ctx context.Context) error {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, b.config.RedisTimeout)
	defer cancel()

	keys := make([]string, 0, len(b.keys))
	for _, key := range b.keys {
		keys = append(keys, key)
	}

	if err := b.config.Redis.Del(ctx, keys...).Err(); err != nil {
		return &RedisError{"reset", err}
	}
	return nil
}

func (b *barrier) Close() error {
	return nil
}

// barrierKeyGrace pads the deadline key's TTL past the deadline itself,
// covering expiry lag without affecting quiet decisions.
const barrierKeyGrace = time.Second

// Lua script for recording a touch
const luaBarrierTouch = `
-- KEYS[1]: deadline key
-- KEYS[2]: stats key
-- ARGV[1]: window in milliseconds
-- ARGV[2]: deadline key TTL in milliseconds
-- ARGV[3]: stats TTL in milliseconds

local deadline_key = KEYS[1]
local stats_key = KEYS[2]

-- Compute the deadline from the server clock so skewed client clocks
-- cannot shrink or stretch the quiet period
local now = redis.call('TIME')
local now_ms = tonumber(now[1]) * 1000 + math.floor(tonumber(now[2]) / 1000)
local deadline = now_ms + tonumber(ARGV[1])

redis.call('SET', deadline_key, deadline, 'PX', ARGV[2])

redis.call('HINCRBY', stats_key, 'touches', 1)
redis.call('PEXPIRE', stats_key, ARGV[3])

return deadline
`

// Lua script for measuring time left until the quiet deadline
const luaBarrierRemaining = `
-- KEYS[1]: deadline key

local deadline = tonumber(redis.call('GET', KEYS[1]) or "0")
if deadline == 0 then
    return 0 -- never touched, or the key already expired
end

local now = redis.call('TIME')
local now_ms = tonumber(now[1]) * 1000 + math.floor(tonumber(now[2]) / 1000)

if deadline <= now_ms then
    return 0 -- quiet
end

return deadline - now_ms
`
