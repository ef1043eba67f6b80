// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting SQL driver errors directly.
package repository

import "errors"

// ErrEventNotFound is returned when no event exists for the given
// identifier. Handlers should translate this into an HTTP 404 response
// or a redirect to the default listing.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when no booking exists for the given
// identifier or ticket token.
var ErrBookingNotFound = errors.New("booking not found")

// ErrAlreadyValidated is returned when a ticket token is redeemed a
// second time. Handlers should translate this into an HTTP 409 response
// so door staff see the duplicate scan.
var ErrAlreadyValidated = errors.New("ticket already validated")
