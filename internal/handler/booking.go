package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/tsrbooking/theater-booking/internal/booking"
    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/payment"
    "github.com/tsrbooking/theater-booking/internal/queue"
    "github.com/tsrbooking/theater-booking/internal/repository"
)

// The booking handler reaches its collaborators through small
// interfaces so tests can run against fakes.  The concrete types are
// repository.EventRepo, booking.Checker and booking.Service.
type eventGetter interface {
    GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

type availability interface {
    Available(ctx context.Context, eventID uint64, seats []string) (bool, error)
}

type lifecycle interface {
    Create(ctx context.Context, eventID uint64, name, email string, seats []string, status model.BookingStatus) (*model.Booking, error)
    Get(ctx context.Context, id uint64) (*model.Booking, error)
    MarkPaid(ctx context.Context, id uint64) error
    Delete(ctx context.Context, id uint64) error
}

// BookingHandler serves the self-service booking flow: seat selection
// to pending booking to hosted checkout, plus the payment return
// endpoints the checkout redirects back to.
type BookingHandler struct {
    Events   eventGetter
    Checker  availability
    Bookings lifecycle
    Gateway  payment.Gateway
    SeatMap  *config.SeatMap
    // Publish enqueues ticket delivery.  Defaults to the RabbitMQ
    // publisher; swapped out in tests.
    Publish func(ctx context.Context, event queue.TicketIssuedEvent) error
}

func (h *BookingHandler) publish(ctx context.Context, event queue.TicketIssuedEvent) error {
    if h.Publish != nil {
        return h.Publish(ctx, event)
    }
    return queue.PublishTicketIssued(ctx, event)
}

// CreateBookingRequest is the seat selection form.
type CreateBookingRequest struct {
    EventID uint64   `json:"event_id"`
    Name    string   `json:"name"`
    Email   string   `json:"email"`
    Seats   []string `json:"seats"`
}

// CreateBooking validates a seat selection, creates a pending booking
// and returns the hosted checkout URL.  The availability check runs
// immediately before the insert; the window between the two is not
// closed, so two near-simultaneous submissions for the same seat can
// both succeed.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    ctx := c.Request().Context()
    var req CreateBookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    ev, err := h.Events.GetByID(ctx, req.EventID)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ev.Visible {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
    }

    seats := booking.DedupSeats(req.Seats)
    if err := booking.ValidateRequest(h.SeatMap, req.Name, req.Email, seats, true); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    free, err := h.Checker.Available(ctx, req.EventID, seats)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !free {
        return c.JSON(http.StatusConflict, echo.Map{"error": booking.ErrSeatsTaken.Error()})
    }

    b, err := h.Bookings.Create(ctx, req.EventID, req.Name, req.Email, seats, model.StatusPending)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    url, err := h.Gateway.CreateSession(ctx, b, ev)
    if err != nil {
        // The pending booking stays; the expiry sweep reclaims its
        // seats if the customer never completes another attempt.
        log.Printf("booking: checkout session for booking %d failed: %v", b.ID, err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider error"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id":   b.ID,
        "checkout_url": url,
    })
}

// PaymentSuccess is where the checkout redirects after a completed
// payment.  The booking moves to paid (only from pending; a repeated
// visit is a no-op) and ticket delivery is enqueued.
func (h *BookingHandler) PaymentSuccess(c echo.Context) error {
    ctx := c.Request().Context()
    sessionID := c.QueryParam("session_id")
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing session_id"})
    }

    id, err := h.Gateway.SessionBookingID(ctx, sessionID)
    if err != nil {
        log.Printf("booking: retrieve session %s failed: %v", sessionID, err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider error"})
    }

    b, err := h.Bookings.Get(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    switch b.Status {
    case model.StatusPending:
        if err := h.Bookings.MarkPaid(ctx, b.ID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        b.Status = model.StatusPaid
        if err := h.publish(ctx, queue.TicketIssuedEvent{
            BookingID: b.ID,
            EventID:   b.EventID,
            IssuedAt:  time.Now().UTC().Format(time.RFC3339),
        }); err != nil {
            // The payment is committed; delivery failure must not
            // roll it back.  The admin resend covers the gap.
            log.Printf("booking: enqueue ticket for booking %d failed: %v", b.ID, err)
        }
    case model.StatusPaid, model.StatusValidated:
        // Refresh or duplicate redirect: already settled.
    default:
        // The hold expired before the redirect came back.
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking is no longer pending"})
    }

    return c.JSON(http.StatusOK, echo.Map{"booking_id": b.ID, "status": b.Status.String()})
}

// PaymentCancel is where the checkout redirects when the customer
// backs out.  The booking is deleted outright, freeing its seats at
// once instead of waiting for the expiry sweep.
func (h *BookingHandler) PaymentCancel(c echo.Context) error {
    ctx := c.Request().Context()
    sessionID := c.QueryParam("session_id")
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing session_id"})
    }

    id, err := h.Gateway.SessionBookingID(ctx, sessionID)
    if err != nil {
        log.Printf("booking: retrieve session %s failed: %v", sessionID, err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment provider error"})
    }

    if err := h.Bookings.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            // Already swept or deleted; the outcome is the same.
            return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}
