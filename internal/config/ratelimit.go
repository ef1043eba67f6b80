package config

import "time"

// RateLimitConfig controls the per-client request limiter applied to
// the public booking endpoints.  The limiter counts requests per
// client IP in fixed windows; when Redis is unreachable the limiter
// disables itself rather than blocking traffic.
type RateLimitConfig struct {
    Enabled bool
    Limit   int           // requests allowed per window
    Window  time.Duration // window length
    Prefix  string        // Redis key namespace
}

// LoadRateLimitConfig reads the rate limiter settings from the
// environment with conservative defaults: 60 requests per minute.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: envBool("RATE_LIMIT_ENABLED", true),
        Limit:   envInt("RATE_LIMIT_LIMIT", 60),
        Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
        Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Limit < 1 {
        cfg.Limit = 1
    }
    if cfg.Window <= 0 {
        cfg.Window = time.Minute
    }
    // The limiter buckets by whole seconds; anything finer is clamped
    // rather than letting the window index divide by zero.
    if cfg.Window < time.Second {
        cfg.Window = time.Second
    }
    return cfg
}
