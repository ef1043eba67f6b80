// Package handler exposes HTTP handlers for the public, payment and
// admin endpoints.  This file defines the unauthenticated browsing
// API: the visible event listing and the per-event seat map with live
// availability.
package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/tsrbooking/theater-booking/internal/booking"
    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/repository"
)

// PublicHandler aggregates what unauthenticated browsing needs: the
// event repository, the availability checker and the static seat map.
type PublicHandler struct {
    Events  *repository.EventRepo
    Checker *booking.Checker
    SeatMap *config.SeatMap
}

// PublicEvent is an event as exposed to unauthenticated users.
type PublicEvent struct {
    ID        uint64          `json:"id"`
    Title     string          `json:"title"`
    Date      string          `json:"date"`
    Time      string          `json:"time"`
    Price     decimal.Decimal `json:"price"`
    PosterURL *string         `json:"poster_url,omitempty"`
}

func publicEvent(ev model.Event) PublicEvent {
    return PublicEvent{
        ID: ev.ID, Title: ev.Title, Date: ev.Date, Time: ev.Time,
        Price: ev.Price, PosterURL: ev.PosterURL,
    }
}

// ListEvents returns every visible event, newest first.  Response JSON
// contains an "items" array of PublicEvent.
func (h *PublicHandler) ListEvents(c echo.Context) error {
    ctx := c.Request().Context()
    events, err := h.Events.ListVisible(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]PublicEvent, 0, len(events))
    for _, ev := range events {
        out = append(out, publicEvent(ev))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetSeatMap returns the venue plan for one event together with the
// current availability: the row letters, the column count, the
// permanently blocked seats and the union of seats held by live
// bookings.  Clients paint the picker from this single response.
func (h *PublicHandler) GetSeatMap(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ev, err := h.Events.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrEventNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ev.Visible {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
    }

    held, err := h.Checker.HeldSeats(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    heldList := make([]string, 0, len(held))
    for seat := range held {
        heldList = append(heldList, seat)
    }

    return c.JSON(http.StatusOK, echo.Map{
        "event":       publicEvent(*ev),
        "rows":        h.SeatMap.Rows,
        "cols":        h.SeatMap.Cols,
        "unavailable": h.SeatMap.UnavailableList(),
        "held":        heldList,
    })
}
