package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/tsrbooking/theater-booking/internal/config"
)

func runLimited(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
    rec := httptest.NewRecorder()
    h := RateLimit(cfg, rdb)(func(c echo.Context) error {
        return c.String(http.StatusOK, "ok")
    })
    require.NoError(t, h(e.NewContext(req, rec)))
    return rec
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
    rec := runLimited(t, config.RateLimitConfig{Enabled: false}, nil)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitNilClientPassesThrough(t *testing.T) {
    cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}
    rec := runLimited(t, cfg, nil)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitSurvivesSubSecondWindow(t *testing.T) {
    // A hand-built config can carry a window under one second; the
    // window index must clamp instead of dividing by zero.  The
    // client points at a closed port so the INCR fails and the
    // request degrades to pass-through.
    rdb := redis.NewClient(&redis.Options{
        Addr:        "127.0.0.1:1",
        DialTimeout: 100 * time.Millisecond,
        MaxRetries:  -1,
    })
    defer rdb.Close()

    cfg := config.RateLimitConfig{Enabled: true, Limit: 5, Window: 500 * time.Millisecond, Prefix: "rl"}
    rec := runLimited(t, cfg, rdb)
    assert.Equal(t, http.StatusOK, rec.Code)
}
