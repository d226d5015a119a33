package httpenv

import "time"

// CircuitBreakerConfig controls the gobreaker wrapping every outbound
// addon/API fetch. One breaker is kept per remote host so one addon's
// outage doesn't trip calls to every other installed addon.
type CircuitBreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultCircuitBreakerConfig gives conservative thresholds for
// outbound calls: a handful of requests during the half-open probe, a
// 10s open-state timeout before a tripped host is probed again, and
// closed-state failure counts cleared every 30s.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// Config configures a new Environment.
type Config struct {
	// RequestTimeout bounds every single HTTP round trip (addon fetch,
	// platform API call, streaming-server call).
	RequestTimeout time.Duration
	Breaker        CircuitBreakerConfig
	UserAgent      string
	// Analytics is the static fragment merged into every
	// Environment.AnalyticsContext() call (platform, app version, ...).
	Analytics map[string]any
	// RateLimitPerSecond caps outbound fetches per remote host; 0
	// disables rate limiting (only the circuit breaker applies).
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// DefaultConfig returns production-sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:     15 * time.Second,
		Breaker:            DefaultCircuitBreakerConfig(),
		UserAgent:          "catalogcore/1",
		Analytics:          map[string]any{},
		RateLimitPerSecond: 5,
		RateLimitBurst:     10,
	}
}
