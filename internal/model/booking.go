package model

import "time"

// BookingStatus is the lifecycle state of a booking.  The numeric
// values are stored verbatim in the bookings.status column.
type BookingStatus int

const (
    // StatusReleased marks a booking whose pending hold aged past the
    // expiry threshold.  The row is kept but its seats no longer count
    // as held.
    StatusReleased BookingStatus = 0
    // StatusPending is the initial state of a self-service booking,
    // created when the customer submits a seat selection and before
    // checkout completes.
    StatusPending BookingStatus = 1
    // StatusPaid marks a booking whose checkout session completed.
    StatusPaid BookingStatus = 2
    // StatusValidated marks a booking redeemed at the door, or a cash
    // sale recorded directly by an administrator.
    StatusValidated BookingStatus = 3
)

// Held reports whether a booking in this state claims its seats.
// The availability checker treats the union of held seats as taken;
// nothing below it guarantees the union is free of overlaps.
func (s BookingStatus) Held() bool {
    return s == StatusPending || s == StatusPaid || s == StatusValidated
}

func (s BookingStatus) String() string {
    switch s {
    case StatusReleased:
        return "released"
    case StatusPending:
        return "pending"
    case StatusPaid:
        return "paid"
    case StatusValidated:
        return "validated"
    }
    return "unknown"
}

// Booking is a customer's claim on one or more seats for one event.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event being booked.
//  Name        – customer name.
//  Email       – customer email (may be empty for cash sales).
//  Seats       – seat identifiers held by this booking.
//  Status      – lifecycle state (see BookingStatus).
//  TicketToken – opaque redemption token rendered as a QR code on the
//                ticket and scanned at the door.
//  CreatedAt   – creation timestamp (UTC), used by the expiry sweep.
type Booking struct {
    ID          uint64        `json:"id"`           // bookings.id
    EventID     uint64        `json:"event_id"`     // bookings.event_id
    Name        string        `json:"name"`         // bookings.name
    Email       string        `json:"email"`        // bookings.email
    Seats       []string      `json:"seats"`        // booking_seats.seat_id rows
    Status      BookingStatus `json:"status"`       // bookings.status
    TicketToken string        `json:"ticket_token"` // bookings.ticket_token
    CreatedAt   time.Time     `json:"created_at"`   // bookings.created_at
}
