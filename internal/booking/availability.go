// Package booking holds the core of the application: the seat
// availability check, the booking lifecycle, and the form validation
// rules.  Handlers stay thin by delegating here; persistence is
// reached through small interfaces so the logic tests against an
// in-memory store.
package booking

import (
    "context"

    "github.com/tsrbooking/theater-booking/internal/config"
)

// HeldSeatSource yields the union of seats claimed by bookings in a
// held state (pending, paid, validated) for one event.  Implemented
// by repository.BookingRepo.
type HeldSeatSource interface {
    HeldSeats(ctx context.Context, eventID uint64) (map[string]struct{}, error)
}

// Checker answers whether a candidate seat selection is currently
// free.  Every call recomputes the held set from the booking table;
// there is no cache to invalidate, which keeps the check trivially
// correct at the cost of a full scan per request.
//
// The check is best-effort only: between a successful check and the
// subsequent insert another request can claim the same seat.  The
// application accepts that window (see the lifecycle notes on
// Service.Create).
type Checker struct {
    held    HeldSeatSource
    seatMap *config.SeatMap
}

// NewChecker builds a Checker over the given booking source and the
// venue's static seat map.
func NewChecker(held HeldSeatSource, seatMap *config.SeatMap) *Checker {
    return &Checker{held: held, seatMap: seatMap}
}

// Available reports whether every candidate seat is simultaneously
// free: not permanently blocked by the seat map and not claimed by any
// booking in a held state for the event.
//
// An empty candidate set is trivially available; rejecting empty
// selections is the caller's job, as is validating that each
// identifier is well-formed for the venue.
func (c *Checker) Available(ctx context.Context, eventID uint64, seats []string) (bool, error) {
    held, err := c.held.HeldSeats(ctx, eventID)
    if err != nil {
        return false, err
    }
    for _, seat := range seats {
        if c.seatMap.IsUnavailable(seat) {
            return false, nil
        }
        if _, taken := held[seat]; taken {
            return false, nil
        }
    }
    return true, nil
}

// HeldSeats exposes the recomputed held set so the seat map endpoint
// can paint taken seats.
func (c *Checker) HeldSeats(ctx context.Context, eventID uint64) (map[string]struct{}, error) {
    return c.held.HeldSeats(ctx, eventID)
}
