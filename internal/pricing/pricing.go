// Package pricing computes the price breakdown for a ticket booking.
// The engine is a pure function over its inputs: the same ticket type,
// quantity, booking instant and discount code always produce the same
// breakdown, and nothing is read from or written to the outside world.
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/gatherly/event-booking/internal/model"
)

// TaxRate is the fixed tax applied to the discounted running total.
const TaxRate = 0.18

// ErrInactiveTicketType is returned when the ticket type is missing or
// not active.
var ErrInactiveTicketType = errors.New("ticket type is missing or inactive")

// ErrInvalidQuantity is returned when the requested quantity is not a
// positive integer.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Breakdown is the result of a price computation.  All amounts are in
// currency units and unrounded; call Rounded before persisting so that
// rounding happens exactly once, at the edge.
type Breakdown struct {
	Subtotal       float64 `json:"basePrice"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	TotalAmount    float64 `json:"finalAmount"`
}

// Quote computes the breakdown for booking quantity units of tt at the
// given instant, optionally redeeming code.  Discounts compound in a
// fixed order, each multiplicative on the already-discounted running
// total:
//
//  1. early-bird, when a deadline is set and at is not after it;
//  2. group, when quantity meets the configured minimum;
//  3. discount code, as a percentage of the running total.
//
// Tax is then charged on the running total at the fixed TaxRate.  The
// caller is responsible for ensuring code belongs to the same event as
// tt and is redeemable; a nil code means no code discount.  A zero at
// defaults to the current time.
func Quote(tt *model.TicketType, quantity int, at time.Time, code *model.DiscountCode) (Breakdown, error) {
	if tt == nil || !tt.IsActive {
		return Breakdown{}, ErrInactiveTicketType
	}
	if quantity <= 0 {
		return Breakdown{}, ErrInvalidQuantity
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	subtotal := tt.Price * float64(quantity)
	running := subtotal

	if tt.EarlyBirdDeadline != nil && !at.After(*tt.EarlyBirdDeadline) {
		running *= 1 - tt.EarlyBirdDiscount
	}
	if quantity >= tt.GroupDiscountMin {
		running *= 1 - tt.GroupDiscount
	}
	if code != nil {
		running *= 1 - code.Value/100
	}

	tax := running * TaxRate
	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: subtotal - running,
		TaxAmount:      tax,
		TotalAmount:    running + tax,
	}, nil
}

// Rounded returns a copy of the breakdown with every amount rounded to
// currency precision (2 decimal places).
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:       round2(b.Subtotal),
		DiscountAmount: round2(b.DiscountAmount),
		TaxAmount:      round2(b.TaxAmount),
		TotalAmount:    round2(b.TotalAmount),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
