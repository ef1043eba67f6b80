package main // Entry point package

import (
    "context"
    "log"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/tsrbooking/theater-booking/internal/booking"
    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/database"
    "github.com/tsrbooking/theater-booking/internal/handler"
    "github.com/tsrbooking/theater-booking/internal/payment"
    "github.com/tsrbooking/theater-booking/internal/queue"
    "github.com/tsrbooking/theater-booking/internal/repository"
    "github.com/tsrbooking/theater-booking/internal/router"
    "github.com/tsrbooking/theater-booking/internal/sweeper"
    "github.com/tsrbooking/theater-booking/internal/ticket"
    "github.com/tsrbooking/theater-booking/internal/utils"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments use the environment
    cfg := config.Load()

    seatMap := config.DefaultSeatMap()
    if cfg.SeatMapPath != "" {
        var err error
        seatMap, err = config.LoadSeatMap(cfg.SeatMapPath)
        if err != nil {
            log.Fatalf("seat map: %v", err)
        }
    }

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()
    if err := database.Migrate(db); err != nil {
        log.Fatalf("migrations: %v", err)
    }

    rdb := config.NewRedisClient() // nil when Redis is unreachable; middlewares pass through

    // The configured admin password is hashed once at startup; only
    // the hash is kept around for login comparisons.
    adminHash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
    if err != nil {
        log.Fatalf("hash admin password: %v", err)
    }

    eventRepo := repository.NewEventRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    checker := booking.NewChecker(bookingRepo, seatMap)
    service := booking.NewService(bookingRepo)
    gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL)
    mailer := ticket.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.EmailPass)

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    // Background workers: ticket delivery and the pending-booking
    // expiry sweep.
    go queue.NewConsumer(bookingRepo, eventRepo, mailer).Start(ctx)
    go sweeper.New(bookingRepo, cfg.SweepInterval, cfg.PendingTTL).Start(ctx)

    e := echo.New()
    e.HideBanner = true

    pub := &handler.PublicHandler{Events: eventRepo, Checker: checker, SeatMap: seatMap}
    bk := &handler.BookingHandler{
        Events:   eventRepo,
        Checker:  checker,
        Bookings: service,
        Gateway:  gateway,
        SeatMap:  seatMap,
    }
    auth := &handler.AuthHandler{
        AdminUser:    cfg.AdminUser,
        PasswordHash: adminHash,
        JWTSecret:    cfg.JWTSecret,
        AccessTTLMin: cfg.AccessTTLMin,
    }
    adminEvents := &handler.AdminEventHandler{Events: eventRepo}
    adminBookings := &handler.AdminBookingHandler{
        Events:   eventRepo,
        Bookings: bookingRepo,
        Service:  service,
        Checker:  checker,
        SeatMap:  seatMap,
    }

    router.RegisterPublic(e, pub, bk, rdb, config.LoadRateLimitConfig(), config.LoadCacheConfig())
    router.RegisterAdmin(e, auth, adminEvents, adminBookings, cfg.JWTSecret)

    addr := ":" + cfg.Port
    go func() {
        log.Printf("listening on %s (env=%s)", addr, cfg.Env)
        if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    <-ctx.Done()
    log.Printf("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}
