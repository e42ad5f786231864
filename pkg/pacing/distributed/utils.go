package distributed

import (
	"crypto/rand"
	"fmt"
	"os"
	"time"
)

// generateInstanceID creates a unique identifier for this process instance.
func generateInstanceID() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "unknown"
	}

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d-%d", hostname, os.Getpid(), time.Now().UnixNano())
	}

	return fmt.Sprintf("%s-%d-%x", hostname, os.Getpid(), buf)
}

// redisKeys generates the Redis key namespace for one coordination
// primitive. Each primitive uses the subset it needs.
func redisKeys(prefix, key string) map[string]string {
	base := prefix + ":" + key
	return map[string]string{
		"cooldown":  base + ":cooldown",
		"deadline":  base + ":deadline",
		"stats":     base + ":stats",
		"instances": base + ":instances",
	}
}

// ConfigError represents an invalid distributed pacing configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "distributed pacing config error: " + e.Message
}

// RedisError wraps a failed Redis operation. Callers can retry, or treat
// the pacer as unavailable and degrade locally.
type RedisError struct {
	Operation string
	Err       error
}

func (e *RedisError) Error() string {
	return "redis error in " + e.Operation + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}
