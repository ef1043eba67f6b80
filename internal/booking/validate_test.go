package booking

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/tsrbooking/theater-booking/internal/config"
)

func TestValidEmail(t *testing.T) {
    valid := []string{
        "anna@example.com",
        "a.b+c@sub.domain.it",
        "USER@EXAMPLE.ORG",
    }
    for _, s := range valid {
        assert.True(t, ValidEmail(s), s)
    }
    invalid := []string{
        "",
        "anna",
        "anna@",
        "@example.com",
        "anna@example",
        "anna example@example.com",
    }
    for _, s := range invalid {
        assert.False(t, ValidEmail(s), s)
    }
}

func TestValidateRequest(t *testing.T) {
    seatMap := config.DefaultSeatMap()

    cases := []struct {
        name         string
        custName     string
        email        string
        seats        []string
        requireEmail bool
        want         error
    }{
        {"ok", "Anna", "anna@example.com", []string{"A1", "A2"}, true, nil},
        {"no seats", "Anna", "anna@example.com", nil, true, ErrNoSeats},
        {"missing name", "  ", "anna@example.com", []string{"A1"}, true, ErrMissingName},
        {"missing email", "Anna", "", []string{"A1"}, true, ErrMissingEmail},
        {"bad email", "Anna", "not-an-email", []string{"A1"}, true, ErrInvalidEmail},
        {"unknown row", "Anna", "anna@example.com", []string{"Z1"}, true, ErrUnknownSeat},
        {"column out of range", "Anna", "anna@example.com", []string{"A28"}, true, ErrUnknownSeat},
        {"cash sale without email", "Anna", "", []string{"A1"}, false, nil},
        {"cash sale with bad email", "Anna", "nope", []string{"A1"}, false, ErrInvalidEmail},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := ValidateRequest(seatMap, tc.custName, tc.email, tc.seats, tc.requireEmail)
            if tc.want == nil {
                assert.NoError(t, err)
            } else {
                assert.ErrorIs(t, err, tc.want)
            }
        })
    }
}

func TestDedupSeats(t *testing.T) {
    assert.Equal(t, []string{"A1", "A2", "B3"}, DedupSeats([]string{"A1", "A2", "A1", "B3", "A2"}))
    assert.Empty(t, DedupSeats(nil))
}
