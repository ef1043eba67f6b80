// Package payment wraps the hosted checkout provider.  A booking is
// created pending before the customer is sent to the provider's page;
// the booking identifier travels as opaque session metadata and is
// recovered when the customer returns, so the success and cancel
// handlers know which booking to confirm or discard.
package payment

import (
    "context"
    "fmt"
    "strconv"
    "strings"

    "github.com/shopspring/decimal"
    "github.com/stripe/stripe-go/v79"
    "github.com/stripe/stripe-go/v79/checkout/session"

    "github.com/tsrbooking/theater-booking/internal/model"
)

// metadataBookingID is the session metadata key carrying our booking
// identifier through the checkout round-trip.
const metadataBookingID = "booking_id"

// Gateway is the surface the handlers depend on, so tests can swap in
// a fake without talking to Stripe.
type Gateway interface {
    // CreateSession opens a hosted checkout session for the booking
    // and returns the URL to redirect the customer to.
    CreateSession(ctx context.Context, b *model.Booking, ev *model.Event) (string, error)
    // SessionBookingID retrieves a completed or abandoned session and
    // recovers the booking identifier from its metadata.
    SessionBookingID(ctx context.Context, sessionID string) (uint64, error)
}

// StripeGateway implements Gateway against the Stripe checkout API.
type StripeGateway struct {
    successURL string
    cancelURL  string
}

// NewStripeGateway configures the global Stripe client and returns a
// gateway redirecting to the given URLs after checkout.
func NewStripeGateway(apiKey, successURL, cancelURL string) *StripeGateway {
    stripe.Key = apiKey
    return &StripeGateway{successURL: successURL, cancelURL: cancelURL}
}

// CreateSession builds a one-line-item card payment in EUR: the
// event's unit price times the number of seats, customer email
// prefilled, booking ID in metadata.
func (g *StripeGateway) CreateSession(ctx context.Context, b *model.Booking, ev *model.Event) (string, error) {
    params := &stripe.CheckoutSessionParams{
        Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
        CustomerEmail: stripe.String(b.Email),
        SuccessURL:    stripe.String(g.successURL),
        CancelURL:     stripe.String(g.cancelURL),
        LineItems: []*stripe.CheckoutSessionLineItemParams{{
            Quantity: stripe.Int64(int64(len(b.Seats))),
            PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
                Currency:   stripe.String(string(stripe.CurrencyEUR)),
                UnitAmount: stripe.Int64(UnitAmountCents(ev.Price)),
                ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
                    Name:        stripe.String(fmt.Sprintf("%s : %s : %s", ev.Title, ev.Date, ev.Time)),
                    Description: stripe.String(fmt.Sprintf("Seats: %s | Ticket N. %d", strings.Join(b.Seats, ","), b.ID)),
                },
            },
        }},
    }
    params.Context = ctx
    params.AddMetadata(metadataBookingID, strconv.FormatUint(b.ID, 10))

    s, err := session.New(params)
    if err != nil {
        return "", fmt.Errorf("create checkout session: %w", err)
    }
    return s.URL, nil
}

// SessionBookingID fetches the session and parses the booking ID back
// out of its metadata.
func (g *StripeGateway) SessionBookingID(ctx context.Context, sessionID string) (uint64, error) {
    params := &stripe.CheckoutSessionParams{}
    params.Context = ctx
    s, err := session.Get(sessionID, params)
    if err != nil {
        return 0, fmt.Errorf("retrieve checkout session: %w", err)
    }
    return ParseBookingID(s.Metadata)
}

// ParseBookingID extracts the booking identifier from session
// metadata.  Split out of SessionBookingID so it can be tested without
// a Stripe round-trip.
func ParseBookingID(metadata map[string]string) (uint64, error) {
    raw, ok := metadata[metadataBookingID]
    if !ok || raw == "" {
        return 0, fmt.Errorf("session metadata has no %s", metadataBookingID)
    }
    id, err := strconv.ParseUint(raw, 10, 64)
    if err != nil {
        return 0, fmt.Errorf("bad %s in session metadata: %q", metadataBookingID, raw)
    }
    return id, nil
}

// UnitAmountCents converts a decimal EUR price into the integer cent
// amount the checkout API expects.
func UnitAmountCents(price decimal.Decimal) int64 {
    return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
