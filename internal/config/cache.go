package config

import "time"

// CacheConfig defines settings for the response cache middleware used
// on the public event listing and seat map endpoints.  When Enabled
// is false or no Redis client is available, caching is a no-op.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration // lifetime of a cached response
    Prefix       string        // Redis key namespace
    MaxBodyBytes int           // responses larger than this are not cached
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// The default TTL is short: seat availability must not be served stale
// for long, since held seats change with every booking.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 5*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
}
