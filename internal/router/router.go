// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/handler"
    "github.com/tsrbooking/theater-booking/internal/middleware"
)

// RegisterPublic registers the unauthenticated endpoints under /v1:
// event browsing, the seat map, the booking submission and the
// payment return URLs.  The read endpoints sit behind the rate
// limiter and the short-lived response cache; writes are rate limited
// but never cached.
func RegisterPublic(e *echo.Echo, pub *handler.PublicHandler, bk *handler.BookingHandler,
    rdb *redis.Client, rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig) {

    e.GET("/health", handler.Health)

    g := e.Group("/v1", middleware.RateLimit(rlCfg, rdb))

    cached := middleware.ResponseCache(cacheCfg, rdb)
    g.GET("/events", pub.ListEvents, cached)
    g.GET("/events/:id/seats", pub.GetSeatMap, cached)

    g.POST("/bookings", bk.CreateBooking)

    // The checkout provider redirects the customer's browser here.
    g.GET("/payment/success", bk.PaymentSuccess)
    g.GET("/payment/cancel", bk.PaymentCancel)
}

// RegisterAdmin registers the operator endpoints under /v1/admin.
// Login is open; everything else requires a valid JWT carrying the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, auth *handler.AuthHandler,
    ev *handler.AdminEventHandler, bk *handler.AdminBookingHandler, jwtSecret string) {

    e.POST("/v1/admin/login", auth.Login)

    g := e.Group(
        "/v1/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(handler.RoleAdmin),
    )

    // ---- Events ----
    g.GET("/events", ev.ListEvents)
    g.POST("/events", ev.CreateEvent)
    g.PUT("/events/:id", ev.UpdateEvent)
    g.PATCH("/events/:id/visibility", ev.SetVisibility)
    g.DELETE("/events/:id", ev.DeleteEvent)

    // ---- Bookings ----
    g.GET("/events/:id/bookings", bk.ListBookings)
    g.POST("/bookings", bk.CreateCashBooking)
    g.POST("/bookings/:id/resend", bk.ResendTicket)
    g.DELETE("/bookings/:id", bk.DeleteBooking)

    // ---- Door ----
    g.POST("/redeem", bk.RedeemTicket)
}
