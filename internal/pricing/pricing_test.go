package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/event-booking/internal/model"
)

func activeType(price float64) *model.TicketType {
	return &model.TicketType{
		ID:                1,
		EventID:           1,
		Name:              "General",
		Price:             price,
		QuantityAvailable: 100,
		GroupDiscountMin:  1 << 30, // effectively disabled
		IsActive:          true,
	}
}

func TestQuoteNoDiscounts(t *testing.T) {
	// $100 × 2, no schedules → subtotal 200, tax 36, total 236.
	b, err := Quote(activeType(100), 2, time.Now(), nil)
	require.NoError(t, err)
	b = b.Rounded()
	assert.Equal(t, 200.0, b.Subtotal)
	assert.Equal(t, 0.0, b.DiscountAmount)
	assert.Equal(t, 36.0, b.TaxAmount)
	assert.Equal(t, 236.0, b.TotalAmount)
}

func TestQuoteGroupDiscountAfterEarlyBird(t *testing.T) {
	// $50 × 10, group 10% at min 10, early-bird deadline already past
	// → running 500 × 0.9 = 450, tax 81, total 531.
	deadline := time.Now().Add(-24 * time.Hour)
	tt := activeType(50)
	tt.EarlyBirdDeadline = &deadline
	tt.EarlyBirdDiscount = 0.25
	tt.GroupDiscountMin = 10
	tt.GroupDiscount = 0.10

	b, err := Quote(tt, 10, time.Now(), nil)
	require.NoError(t, err)
	b = b.Rounded()
	assert.Equal(t, 500.0, b.Subtotal)
	assert.Equal(t, 50.0, b.DiscountAmount)
	assert.Equal(t, 81.0, b.TaxAmount)
	assert.Equal(t, 531.0, b.TotalAmount)
}

func TestQuoteCompoundsEarlyBirdThenCode(t *testing.T) {
	// $100 × 1, early-bird 20% still open, code worth 10%
	// → running 100 × 0.8 × 0.9 = 72, tax 12.96, total 84.96.
	deadline := time.Now().Add(24 * time.Hour)
	tt := activeType(100)
	tt.EarlyBirdDeadline = &deadline
	tt.EarlyBirdDiscount = 0.20

	code := &model.DiscountCode{EventID: 1, Code: "SAVE10", Value: 10, IsActive: true}
	b, err := Quote(tt, 1, time.Now(), code)
	require.NoError(t, err)
	b = b.Rounded()
	assert.Equal(t, 100.0, b.Subtotal)
	assert.Equal(t, 28.0, b.DiscountAmount)
	assert.Equal(t, 12.96, b.TaxAmount)
	assert.Equal(t, 84.96, b.TotalAmount)
}

func TestQuoteCompoundingOrderNotCumulative(t *testing.T) {
	// All three discounts at once: each applies to the running total,
	// not to the original subtotal.  100 × 0.8 × 0.9 × 0.5 = 36.
	deadline := time.Now().Add(time.Hour)
	tt := activeType(100)
	tt.EarlyBirdDeadline = &deadline
	tt.EarlyBirdDiscount = 0.20
	tt.GroupDiscountMin = 1
	tt.GroupDiscount = 0.10

	code := &model.DiscountCode{EventID: 1, Code: "HALF", Value: 50, IsActive: true}
	b, err := Quote(tt, 1, time.Now(), code)
	require.NoError(t, err)
	assert.InDelta(t, 64.0, b.DiscountAmount, 1e-9)
	assert.InDelta(t, 36.0*TaxRate, b.TaxAmount, 1e-9)
	// Cumulative-on-subtotal would have yielded a discount of 80.
	assert.Less(t, b.DiscountAmount, 80.0)
}

func TestQuoteBoundaryAtDeadline(t *testing.T) {
	// Booking exactly at the deadline still earns the early-bird rate.
	deadline := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tt := activeType(100)
	tt.EarlyBirdDeadline = &deadline
	tt.EarlyBirdDiscount = 0.20

	b, err := Quote(tt, 1, deadline, nil)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, b.DiscountAmount, 1e-9)

	b, err = Quote(tt, 1, deadline.Add(time.Second), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, b.DiscountAmount, 1e-9)
}

func TestQuoteDeterministic(t *testing.T) {
	deadline := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	tt := activeType(73.50)
	tt.EarlyBirdDeadline = &deadline
	tt.EarlyBirdDiscount = 0.15
	tt.GroupDiscountMin = 4
	tt.GroupDiscount = 0.05
	code := &model.DiscountCode{EventID: 1, Code: "X", Value: 12.5, IsActive: true}
	at := deadline.Add(-time.Hour)

	first, err := Quote(tt, 5, at, code)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Quote(tt, 5, at, code)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestQuoteNonNegativity(t *testing.T) {
	deadline := time.Now().Add(time.Hour)
	cases := []struct {
		price float64
		qty   int
		eb    float64
		grp   float64
		code  float64
	}{
		{0, 1, 0, 0, 0},
		{19.99, 3, 0.5, 0.5, 100},
		{250, 12, 1, 0, 0},
		{1, 1, 0, 1, 50},
	}
	for _, tc := range cases {
		tt := activeType(tc.price)
		tt.EarlyBirdDeadline = &deadline
		tt.EarlyBirdDiscount = tc.eb
		tt.GroupDiscountMin = 2
		tt.GroupDiscount = tc.grp
		var code *model.DiscountCode
		if tc.code > 0 {
			code = &model.DiscountCode{Value: tc.code, IsActive: true}
		}
		b, err := Quote(tt, tc.qty, time.Now(), code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.DiscountAmount, 0.0)
		assert.GreaterOrEqual(t, b.TaxAmount, 0.0)
		assert.GreaterOrEqual(t, b.TotalAmount, b.Subtotal-b.DiscountAmount-1e-9)
	}
}

func TestQuoteRejectsBadInput(t *testing.T) {
	_, err := Quote(nil, 1, time.Now(), nil)
	assert.ErrorIs(t, err, ErrInactiveTicketType)

	tt := activeType(10)
	tt.IsActive = false
	_, err = Quote(tt, 1, time.Now(), nil)
	assert.ErrorIs(t, err, ErrInactiveTicketType)

	_, err = Quote(activeType(10), 0, time.Now(), nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = Quote(activeType(10), -3, time.Now(), nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRounded(t *testing.T) {
	b := Breakdown{Subtotal: 100, DiscountAmount: 28.000000000000004, TaxAmount: 12.959999999999999, TotalAmount: 84.96000000000001}
	r := b.Rounded()
	assert.Equal(t, Breakdown{Subtotal: 100, DiscountAmount: 28, TaxAmount: 12.96, TotalAmount: 84.96}, r)
}
