package payment

import (
    "testing"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestUnitAmountCents(t *testing.T) {
    cases := map[string]int64{
        "12.50": 1250,
        "0.99":  99,
        "20":    2000,
        "7.005": 701, // rounds, never truncates
    }
    for price, want := range cases {
        d, err := decimal.NewFromString(price)
        require.NoError(t, err)
        assert.Equal(t, want, UnitAmountCents(d), price)
    }
}

func TestParseBookingID(t *testing.T) {
    id, err := ParseBookingID(map[string]string{"booking_id": "42"})
    require.NoError(t, err)
    assert.Equal(t, uint64(42), id)

    _, err = ParseBookingID(map[string]string{})
    assert.Error(t, err)

    _, err = ParseBookingID(map[string]string{"booking_id": "abc"})
    assert.Error(t, err)
}
