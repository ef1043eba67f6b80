package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/tsrbooking/theater-booking/internal/booking"
    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/queue"
    "github.com/tsrbooking/theater-booking/internal/repository"
)

// AdminBookingHandler serves booking administration: the per-event
// transaction list, cash sales recorded at the box office, ticket
// resend, booking deletion and door redemption by scanned token.
type AdminBookingHandler struct {
    Events   *repository.EventRepo
    Bookings *repository.BookingRepo
    Service  *booking.Service
    Checker  *booking.Checker
    SeatMap  *config.SeatMap
    // Publish enqueues ticket delivery.  Defaults to the RabbitMQ
    // publisher; swapped out in tests.
    Publish func(ctx context.Context, event queue.TicketIssuedEvent) error
}

func (h *AdminBookingHandler) publish(ctx context.Context, event queue.TicketIssuedEvent) error {
    if h.Publish != nil {
        return h.Publish(ctx, event)
    }
    return queue.PublishTicketIssued(ctx, event)
}

// ListBookings returns every booking of an event regardless of status,
// newest first.
func (h *AdminBookingHandler) ListBookings(c echo.Context) error {
    ctx := c.Request().Context()
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Events.GetByID(ctx, eventID); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    bookings, err := h.Bookings.ListByEvent(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// CashBookingRequest records a sale made at the box office.  Status
// may be paid (2) for a phone reservation to be picked up, or
// validated (3) for a walk-in already through the door; it defaults
// to validated.  Email is optional since door sales often have no
// address on file.
type CashBookingRequest struct {
    EventID uint64   `json:"event_id"`
    Name    string   `json:"name"`
    Email   string   `json:"email"`
    Seats   []string `json:"seats"`
    Status  *int     `json:"status"`
}

// CreateCashBooking inserts a booking directly in a settled state,
// bypassing checkout.  A ticket email goes out when an address was
// given.
func (h *AdminBookingHandler) CreateCashBooking(c echo.Context) error {
    ctx := c.Request().Context()
    var req CashBookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    status := model.StatusValidated
    if req.Status != nil {
        status = model.BookingStatus(*req.Status)
        if status != model.StatusPaid && status != model.StatusValidated {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be paid or validated"})
        }
    }

    if _, err := h.Events.GetByID(ctx, req.EventID); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    seats := booking.DedupSeats(req.Seats)
    if err := booking.ValidateRequest(h.SeatMap, req.Name, req.Email, seats, false); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    free, err := h.Checker.Available(ctx, req.EventID, seats)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !free {
        return c.JSON(http.StatusConflict, echo.Map{"error": booking.ErrSeatsTaken.Error()})
    }

    b, err := h.Service.Create(ctx, req.EventID, req.Name, req.Email, seats, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if b.Email != "" {
        if err := h.publish(ctx, queue.TicketIssuedEvent{
            BookingID: b.ID,
            EventID:   b.EventID,
            IssuedAt:  time.Now().UTC().Format(time.RFC3339),
        }); err != nil {
            log.Printf("admin: enqueue ticket for cash booking %d failed: %v", b.ID, err)
        }
    }
    return c.JSON(http.StatusCreated, b)
}

// ResendTicket re-enqueues ticket delivery for a settled booking.
// Only paid or validated bookings hold a ticket worth sending.
func (h *AdminBookingHandler) ResendTicket(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    b, err := h.Service.Get(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if b.Status != model.StatusPaid && b.Status != model.StatusValidated {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking has no ticket to resend"})
    }
    if b.Email == "" {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking has no email address"})
    }
    if err := h.publish(ctx, queue.TicketIssuedEvent{
        BookingID: b.ID,
        EventID:   b.EventID,
        Resend:    true,
        IssuedAt:  time.Now().UTC().Format(time.RFC3339),
    }); err != nil {
        log.Printf("admin: enqueue resend for booking %d failed: %v", b.ID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "queue error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking_id": b.ID, "resent": true})
}

// DeleteBooking removes a booking outright, freeing its seats
// immediately.
func (h *AdminBookingHandler) DeleteBooking(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Service.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.NoContent(http.StatusNoContent)
}

// RedeemRequest carries the token scanned from a ticket's QR code.
type RedeemRequest struct {
    Token string `json:"token"`
}

// RedeemTicket validates a ticket at the door.  A pending or paid
// booking moves to validated; scanning the same ticket twice is a
// conflict so a passed-around ticket admits one party only.
func (h *AdminBookingHandler) RedeemTicket(c echo.Context) error {
    ctx := c.Request().Context()
    var req RedeemRequest
    if err := c.Bind(&req); err != nil || req.Token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
    }

    b, err := h.Service.GetByToken(ctx, req.Token)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown ticket"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    switch b.Status {
    case model.StatusPending, model.StatusPaid:
        if err := h.Service.MarkValidated(ctx, b.ID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    case model.StatusValidated:
        return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrAlreadyValidated.Error()})
    default:
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking hold expired"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "booking_id": b.ID,
        "name":       b.Name,
        "seats":      b.Seats,
        "status":     model.StatusValidated.String(),
    })
}
