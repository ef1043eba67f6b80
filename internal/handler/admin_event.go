package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/repository"
)

// AdminEventHandler serves event administration: the dashboard listing
// with per-event stats, create/update, visibility toggling and the
// cascading delete.
type AdminEventHandler struct {
    Events *repository.EventRepo
}

// EventRequest is the create/update form for an event.
type EventRequest struct {
    Title     string  `json:"title"`
    Date      string  `json:"date"`
    Time      string  `json:"time"`
    Price     string  `json:"price"`
    PosterURL *string `json:"poster_url"`
    Visible   *bool   `json:"visible"`
}

// AdminEvent is an event as shown on the dashboard, stats included.
type AdminEvent struct {
    model.Event
    Stats model.EventStats `json:"stats"`
}

func (r *EventRequest) validate() (decimal.Decimal, error) {
    if r.Title == "" || r.Date == "" || r.Time == "" {
        return decimal.Decimal{}, errors.New("title, date and time are required")
    }
    price, err := decimal.NewFromString(r.Price)
    if err != nil || price.IsNegative() {
        return decimal.Decimal{}, errors.New("price must be a non-negative decimal")
    }
    return price, nil
}

// ListEvents returns every event, hidden ones included, each with its
// pending/sold/validated seat counts.
func (h *AdminEventHandler) ListEvents(c echo.Context) error {
    ctx := c.Request().Context()
    events, err := h.Events.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]AdminEvent, 0, len(events))
    for _, ev := range events {
        stats, err := h.Events.Stats(ctx, ev.ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        out = append(out, AdminEvent{Event: ev, Stats: stats})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// CreateEvent inserts a new event.  Events default to visible unless
// the request says otherwise.
func (h *AdminEventHandler) CreateEvent(c echo.Context) error {
    ctx := c.Request().Context()
    var req EventRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    price, err := req.validate()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    visible := true
    if req.Visible != nil {
        visible = *req.Visible
    }
    ev := &model.Event{
        Title: req.Title, Date: req.Date, Time: req.Time,
        Price: price, PosterURL: req.PosterURL, Visible: visible,
    }
    if err := h.Events.Create(ctx, ev); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, ev)
}

// UpdateEvent overwrites the mutable fields of an event.
func (h *AdminEventHandler) UpdateEvent(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req EventRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    price, err := req.validate()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    current, err := h.Events.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    current.Title = req.Title
    current.Date = req.Date
    current.Time = req.Time
    current.Price = price
    current.PosterURL = req.PosterURL
    if req.Visible != nil {
        current.Visible = *req.Visible
    }
    if err := h.Events.Update(ctx, current); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, current)
}

// SetVisibility hides or shows an event in the public listing.  The
// request body is {"visible": bool}.
func (h *AdminEventHandler) SetVisibility(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req struct {
        Visible *bool `json:"visible"`
    }
    if err := c.Bind(&req); err != nil || req.Visible == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "visible is required"})
    }
    if err := h.Events.SetVisible(ctx, id, *req.Visible); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "visible": *req.Visible})
}

// DeleteEvent removes an event and every booking attached to it.
// Hiding is the routine operation; this is for mistakes.
func (h *AdminEventHandler) DeleteEvent(c echo.Context) error {
    ctx := c.Request().Context()
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Events.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.NoContent(http.StatusNoContent)
}
