package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Event represents a single theater performance that can be booked.
// Events are created and maintained by administrators only; end
// users never mutate them.  Hidden events stay in the database but
// are excluded from public listings.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – name of the performance.
//  Date      – display date (dd/mm/yyyy).
//  Time      – display time (HH:MM).
//  Price     – unit price per seat in EUR.
//  PosterURL – optional URL of the poster image.
//  Visible   – whether the event appears in the public listing.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Event struct {
    ID        uint64          `json:"id"`         // events.id
    Title     string          `json:"title"`      // events.title
    Date      string          `json:"date"`       // events.date
    Time      string          `json:"time"`       // events.time
    Price     decimal.Decimal `json:"price"`      // events.price
    PosterURL *string         `json:"poster_url"` // events.poster_url (nullable)
    Visible   bool            `json:"visible"`    // events.visible
    CreatedAt time.Time       `json:"-"`          // events.created_at
    UpdatedAt time.Time       `json:"-"`          // events.updated_at
}

// EventStats aggregates how many seats of an event sit in each
// booking state.  Used by the admin dashboard.
type EventStats struct {
    Pending   int `json:"pending"`   // seats in pending bookings
    Sold      int `json:"sold"`      // seats in paid bookings
    Validated int `json:"validated"` // seats in validated bookings
}
