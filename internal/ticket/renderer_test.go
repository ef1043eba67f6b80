package ticket

import (
    "testing"
    "time"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/tsrbooking/theater-booking/internal/model"
)

func sampleBooking() (*model.Booking, *model.Event) {
    b := &model.Booking{
        ID:          7,
        EventID:     1,
        Name:        "Anna Rossi",
        Email:       "anna@example.com",
        Seats:       []string{"A1", "A2"},
        Status:      model.StatusPaid,
        TicketToken: "0b8fcf6e-9f7a-4a4e-a2a5-0e6a2b1a9c11",
        CreatedAt:   time.Now().UTC(),
    }
    ev := &model.Event{
        ID:    1,
        Title: "La Traviata",
        Date:  "2026-10-01",
        Time:  "21:00",
        Price: decimal.NewFromInt(25),
    }
    return b, ev
}

func TestRenderHTML(t *testing.T) {
    b, ev := sampleBooking()
    html, err := RenderHTML(b, ev)
    require.NoError(t, err)

    assert.Contains(t, html, "Anna Rossi")
    assert.Contains(t, html, "La Traviata")
    assert.Contains(t, html, "A1, A2")
    assert.Contains(t, html, "2026-10-01")
    assert.NotContains(t, html, b.TicketToken, "token belongs in the QR, not the email body")
}

func TestRenderPDF(t *testing.T) {
    b, ev := sampleBooking()
    pdf, err := RenderPDF(b, ev)
    require.NoError(t, err)

    require.Greater(t, len(pdf), 1000)
    assert.Equal(t, "%PDF", string(pdf[:4]))
}
