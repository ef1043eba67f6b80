package middleware

import (
    "bytes"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/tsrbooking/theater-booking/internal/config"
)

// cachedResponse is the stored form of a cacheable response.
type cachedResponse struct {
    Status      int    `json:"status"`
    ContentType string `json:"content_type"`
    Body        []byte `json:"body"`
}

// bodyRecorder captures the response body while forwarding it to the
// client, up to a size limit.  A response that outgrows the limit is
// marked truncated and must never be cached: the buffer no longer
// matches what the client received.
type bodyRecorder struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int
    truncated bool
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    if r.buf.Len()+len(b) <= r.limit {
        r.buf.Write(b)
    } else if len(b) > 0 {
        r.truncated = true
    }
    return r.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses in Redis for a short
// TTL. Seat availability tolerates a few seconds of staleness because
// every booking attempt re-checks against the database; the cache only
// shields the hot public listing and seat map endpoints. Pass-through
// when Redis is down.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := cacheKey(cfg.Prefix, c)
            ctx := c.Request().Context()

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(raw, &cached) == nil {
                    c.Response().Header().Set(echo.HeaderContentType, cached.ContentType)
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(cached.Status, cached.ContentType, cached.Body)
                }
            }

            rec := &bodyRecorder{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          cfg.MaxBodyBytes,
            }
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if rec.status == http.StatusOK && !rec.truncated {
                entry := cachedResponse{
                    Status:      rec.status,
                    ContentType: c.Response().Header().Get(echo.HeaderContentType),
                    Body:        rec.buf.Bytes(),
                }
                if raw, err := json.Marshal(entry); err == nil {
                    rdb.Set(ctx, key, raw, cfg.TTL)
                }
            }
            return nil
        }
    }
}

func cacheKey(prefix string, c echo.Context) string {
    r := c.Request()
    sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
    return fmt.Sprintf("%s:%x", prefix, sum[:])
}
