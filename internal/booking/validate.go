package booking

import (
    "errors"
    "regexp"
    "strings"

    "github.com/tsrbooking/theater-booking/internal/config"
)

// Validation failures surfaced to the submitter.  Handlers map each
// to an HTTP 400; ErrSeatsTaken maps to 409 because retrying with a
// different selection can succeed.
var (
    ErrNoSeats      = errors.New("no seats selected")
    ErrMissingName  = errors.New("name is required")
    ErrMissingEmail = errors.New("email is required")
    ErrInvalidEmail = errors.New("invalid email address")
    ErrUnknownSeat  = errors.New("unknown seat identifier")
    ErrSeatsTaken   = errors.New("some seats are no longer available")
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
    return emailRe.MatchString(s)
}

// ValidateRequest checks a booking submission before any database
// write: customer fields present, email well-formed, at least one
// seat, and every seat identifier well-formed for the venue.  Admin
// cash sales pass requireEmail=false since door sales often have no
// address on file.
//
// Seat availability is deliberately not checked here; that is the
// Checker's job and must run as close to the insert as possible.
func ValidateRequest(seatMap *config.SeatMap, name, email string, seats []string, requireEmail bool) error {
    if len(seats) == 0 {
        return ErrNoSeats
    }
    if strings.TrimSpace(name) == "" {
        return ErrMissingName
    }
    if requireEmail {
        if strings.TrimSpace(email) == "" {
            return ErrMissingEmail
        }
        if !ValidEmail(email) {
            return ErrInvalidEmail
        }
    } else if email != "" && !ValidEmail(email) {
        return ErrInvalidEmail
    }
    for _, seat := range seats {
        if !seatMap.Valid(seat) {
            return ErrUnknownSeat
        }
    }
    return nil
}

// DedupSeats drops duplicate identifiers while preserving the order of
// first occurrence, so a double-clicked seat does not book twice.
func DedupSeats(seats []string) []string {
    seen := make(map[string]struct{}, len(seats))
    out := make([]string, 0, len(seats))
    for _, s := range seats {
        if _, ok := seen[s]; ok {
            continue
        }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    return out
}
