package middleware

import (
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/tsrbooking/theater-booking/internal/config"
)

// RateLimit returns a fixed-window per-client limiter backed by Redis.
// Each client IP gets cfg.Limit requests per cfg.Window; the counter
// key expires with the window so idle clients cost nothing. When Redis
// is unavailable the middleware passes requests through rather than
// failing the site.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    // Defend against a hand-built config with a sub-second window;
    // the window index is computed in whole seconds.
    windowSecs := int64(cfg.Window / time.Second)
    if windowSecs < 1 {
        windowSecs = 1
        cfg.Window = time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ip := c.RealIP()
            if ip == "" {
                ip = "unknown"
            }
            window := time.Now().Unix() / windowSecs
            key := fmt.Sprintf("%s:%s:%d", cfg.Prefix, ip, window)

            ctx := c.Request().Context()
            count, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                return next(c)
            }
            if count == 1 {
                rdb.Expire(ctx, key, cfg.Window)
            }

            remaining := int64(cfg.Limit) - count
            if remaining < 0 {
                remaining = 0
            }
            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if count > int64(cfg.Limit) {
                c.Response().Header().Set("Retry-After", strconv.Itoa(int(cfg.Window/time.Second)))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":   "too_many_requests",
                    "message": "rate limit exceeded",
                })
            }
            return next(c)
        }
    }
}
