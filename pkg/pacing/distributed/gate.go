package distributed

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	pfcontext "github.com/vnykmshr/pageflow/pkg/common/context"
)

// Gate coordinates a leading-edge throttle across process instances:
// the first caller in each window wins, everyone else loses until the
// window expires.
type Gate interface {
	// Allow reports whether this caller won the current window across
	// all instances. On Redis failure it falls back to a local
	// per-instance limiter when the gate is configured to.
	Allow(ctx context.Context) bool

	// Remaining returns how long the current window has left, or zero
	// when the window is open.
	Remaining(ctx context.Context) (time.Duration, error)

	// Stats returns current gate statistics.
	Stats(ctx context.Context) (*GateStats, error)

	// Reset clears the gate state (useful for testing).
	Reset(ctx context.Context) error

	// InstanceID returns the identifier this instance claims windows with.
	InstanceID() string

	// Close unregisters this instance from the gate.
	Close() error
}

// GateStats holds distributed gate statistics.
type GateStats struct {
	Window          time.Duration
	Allowed         int64
	Suppressed      int64
	Fallbacks       int64
	Holder          string
	ActiveInstances []string
}

// GateConfig holds configuration for a distributed gate.
type GateConfig struct {
	// Redis client for coordination
	Redis redis.UniversalClient

	// Key is the logical gate name
	Key string

	// Window is how long a won window suppresses later callers.
	// Must be at least one millisecond.
	Window time.Duration

	// InstanceID uniquely identifies this process instance
	InstanceID string

	// KeyPrefix namespaces the gate's Redis keys (defaults to "pageflow:gate")
	KeyPrefix string

	// RedisTimeout is the timeout for Redis operations (defaults to 5s)
	RedisTimeout time.Duration

	// FallbackToLocal enables a local leading-edge limiter when Redis
	// is unavailable
	FallbackToLocal bool

	// KeyTTL is how long stats and registry keys should live
	// (defaults to 10x Window)
	KeyTTL time.Duration
}

// DefaultGateConfig returns a default distributed gate configuration.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		InstanceID:      generateInstanceID(),
		KeyPrefix:       "pageflow:gate",
		RedisTimeout:    5 * time.Second,
		FallbackToLocal: true,
	}
}

// gate implements Gate on Redis. The window claim is a single Lua script,
// so checking and claiming are atomic across instances.
type gate struct {
	config GateConfig
	keys   map[string]string

	// local decides when Redis cannot; rate.Every(window) with burst 1
	// matches the gate's leading-edge behavior per instance.
	local *rate.Limiter

	statsMu   sync.Mutex
	fallbacks int64

	claimScript *redis.Script
}

// NewGate creates a distributed gate. Construction requires a reachable
// Redis so the instance can register itself; the local fallback covers
// transient failures after that.
func NewGate(config GateConfig) (Gate, error) {
	if config.Redis == nil {
		return nil, &ConfigError{"redis client is required"}
	}
	if config.Key == "" {
		return nil, &ConfigError{"key is required"}
	}
	if config.Window < time.Millisecond {
		return nil, &ConfigError{"window must be at least one millisecond"}
	}

	config = applyGateDefaults(config)

	g := &gate{
		config:      config,
		keys:        redisKeys(config.KeyPrefix, config.Key),
		local:       rate.NewLimiter(rate.Every(config.Window), 1),
		claimScript: redis.NewScript(luaGateClaim),
	}

	if err := g.initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize gate: %w", err)
	}

	return g, nil
}

// applyGateDefaults sets default values for unspecified config fields.
func applyGateDefaults(config GateConfig) GateConfig {
	if config.InstanceID == "" {
		config.InstanceID = generateInstanceID()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "pageflow:gate"
	}
	if config.RedisTimeout == 0 {
		config.RedisTimeout = 5 * time.Second
	}
	if config.KeyTTL == 0 {
		config.KeyTTL = 10 * config.Window
	}
	return config
}

// initialize seeds the stats hash and registers this instance.
func (g *gate) initialize(ctx context.Context) error {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, g.config.RedisTimeout)
	defer cancel()

	pipe := g.config.Redis.Pipeline()

	// Seed counters only if absent; other instances may already be
	// counting against this gate.
	pipe.HSetNX(ctx, g.keys["stats"], "allowed", 0)
	pipe.HSetNX(ctx, g.keys["stats"], "suppressed", 0)
	pipe.PExpire(ctx, g.keys["stats"], g.config.KeyTTL)

	pipe.SAdd(ctx, g.keys["instances"], g.config.InstanceID)
	pipe.PExpire(ctx, g.keys["instances"], g.config.KeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return &RedisError{"initialize", err}
	}

	return nil
}

func (g *gate) Allow(ctx context.Context) bool {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, g.config.RedisTimeout)
	defer cancel()

	result, err := g.claimScript.Run(ctx, g.config.Redis, []string{
		g.keys["cooldown"],
		g.keys["stats"],
	},
		g.config.InstanceID,
		g.config.Window.Milliseconds(),
		g.config.KeyTTL.Milliseconds(),
	).Result()

	if err != nil {
		return g.allowLocal()
	}

	won, ok := result.(int64)
	return ok && won == 1
}

// allowLocal decides a call when Redis cannot be reached. Each instance
// degrades to its own leading-edge window.
func (g *gate) allowLocal() bool {
	if !g.config.FallbackToLocal {
		return false
	}

	g.statsMu.Lock()
	g.fallbacks++
	g.statsMu.Unlock()

	return g.local.Allow()
}

func (g *gate) Remaining(ctx context.Context) (time.Duration, error) {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, g.config.RedisTimeout)
	defer cancel()

	ttl, err := g.config.Redis.PTTL(ctx, g.keys["cooldown"]).Result()
	if err != nil {
		return 0, &RedisError{"remaining", err}
	}
	if ttl < 0 {
		// -2 means no key, -1 means no expiry; the window is open either way.
		return 0, nil
	}
	return ttl, nil
}

func (g *gate) Stats(ctx context.Context) (*GateStats, error) {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, g.config.RedisTimeout)
	defer cancel()

	pipe := g.config.Redis.Pipeline()
	statsCmd := pipe.HGetAll(ctx, g.keys["stats"])
	instancesCmd := pipe.SMembers(ctx, g.keys["instances"])
	holderCmd := pipe.Get(ctx, g.keys["cooldown"])

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, &RedisError{"stats", err}
	}

	statsMap := statsCmd.Val()
	allowed, _ := strconv.ParseInt(statsMap["allowed"], 10, 64)
	suppressed, _ := strconv.ParseInt(statsMap["suppressed"], 10, 64)

	g.statsMu.Lock()
	fallbacks := g.fallbacks
	g.statsMu.Unlock()

	return &GateStats{
		Window:          g.config.Window,
		Allowed:         allowed,
		Suppressed:      suppressed,
		Fallbacks:       fallbacks,
		Holder:          holderCmd.Val(),
		ActiveInstances: instancesCmd.Val(),
	}, nil
}

func (g *gate) Reset(ctx context.Context) error {
	ctx, cancel := pfcontext.WithTimeoutOrCancel(ctx, g.config.RedisTimeout)
	defer cancel()

	keys := make([]string, 0, len(g.keys))
	for _, key := range g.keys {
		keys = append(keys, key)
	}

	if err := g.config.Redis.Del(ctx, keys...).Err(); err != nil {
		return &RedisError{"reset", err}
	}

	g.statsMu.Lock()
	g.fallbacks = 0
	g.statsMu.Unlock()

	return g.initialize(ctx)
}

func (g *gate) InstanceID() string {
	return g.config.InstanceID
}

func (g *gate) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.config.RedisTimeout)
	defer cancel()

	return g.config.Redis.SRem(ctx, g.keys["instances"], g.config.InstanceID).Err()
}

// Lua script for claiming a gate window
const luaGateClaim = `
-- KEYS[1]: cooldown key
-- KEYS[2]: stats key
-- ARGV[1]: instance id
-- ARGV[2]: window in milliseconds
-- ARGV[3]: stats TTL in milliseconds

local cooldown_key = KEYS[1]
local stats_key = KEYS[2]

-- An existing cooldown key means another caller already won this window
if redis.call('EXISTS', cooldown_key) == 1 then
    redis.call('HINCRBY', stats_key, 'suppressed', 1)
    return 0 -- suppressed
end

-- Claim the window; the key expires when the window does
redis.call('SET', cooldown_key, ARGV[1], 'PX', ARGV[2])

redis.call('HINCRBY', stats_key, 'allowed', 1)
redis.call('HSET', stats_key, 'last_winner', ARGV[1])
redis.call('PEXPIRE', stats_key, ARGV[3])

return 1 -- allowed
`
