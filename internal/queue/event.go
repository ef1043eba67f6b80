// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a booking becomes entitled to a
// ticket: after a successful checkout, after an admin cash sale, or
// when an admin requests a resend. The consumer loads current booking
// and event state from the database, so the payload carries
// identifiers rather than a snapshot.
type TicketIssuedEvent struct {
    BookingID uint64 `json:"booking_id"`
    EventID   uint64 `json:"event_id"`
    Resend    bool   `json:"resend"`
    IssuedAt  string `json:"issued_at"`
}
