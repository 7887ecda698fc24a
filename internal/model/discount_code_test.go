package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedeemableAtWindow(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	dc := DiscountCode{Code: "SUMMER", Value: 10, ValidFrom: &from, ValidUntil: &until, IsActive: true}

	assert.False(t, dc.RedeemableAt(from.Add(-time.Second), 1), "before the window")
	assert.True(t, dc.RedeemableAt(from, 1), "window start is inclusive")
	assert.True(t, dc.RedeemableAt(until, 1), "window end is inclusive")
	assert.False(t, dc.RedeemableAt(until.Add(time.Second), 1), "after the window")
}

func TestRedeemableAtUsageLimit(t *testing.T) {
	limit := 3
	dc := DiscountCode{Code: "VIP3", Value: 25, UsageLimit: &limit, IsActive: true}
	now := time.Now().UTC()

	dc.UsageCount = 2
	assert.True(t, dc.RedeemableAt(now, 1))
	dc.UsageCount = 3
	assert.False(t, dc.RedeemableAt(now, 1), "limit reached")

	unlimited := DiscountCode{Code: "OPEN", Value: 5, UsageCount: 1000, IsActive: true}
	assert.True(t, unlimited.RedeemableAt(now, 1), "nil limit never exhausts")
}

func TestRedeemableAtMinQuantity(t *testing.T) {
	dc := DiscountCode{Code: "GROUP5", Value: 15, MinQuantity: 5, IsActive: true}
	now := time.Now().UTC()

	assert.False(t, dc.RedeemableAt(now, 4))
	assert.True(t, dc.RedeemableAt(now, 5))
}

func TestTicketTypeRemaining(t *testing.T) {
	tt := TicketType{QuantityAvailable: 100, QuantitySold: 97}
	assert.Equal(t, 3, tt.Remaining())

	tt.QuantitySold = 100
	assert.Equal(t, 0, tt.Remaining())

	// A counter past the cap still reports zero, never negative.
	tt.QuantitySold = 101
	assert.Equal(t, 0, tt.Remaining())
}
