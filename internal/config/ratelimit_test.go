package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
    cfg := LoadRateLimitConfig()
    assert.True(t, cfg.Enabled)
    assert.Equal(t, 60, cfg.Limit)
    assert.Equal(t, time.Minute, cfg.Window)
}

func TestLoadRateLimitConfigClampsSubSecondWindow(t *testing.T) {
    // The limiter buckets by whole seconds; a finer window must not
    // reach the middleware, where it would zero the window divisor.
    t.Setenv("RATE_LIMIT_WINDOW", "500ms")
    cfg := LoadRateLimitConfig()
    assert.Equal(t, time.Second, cfg.Window)

    t.Setenv("RATE_LIMIT_WINDOW", "-1s")
    cfg = LoadRateLimitConfig()
    assert.Equal(t, time.Minute, cfg.Window)
}
