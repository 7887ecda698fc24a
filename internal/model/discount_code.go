package model

import "time"

// DiscountCode is an organizer-issued promotional code scoped to one
// event.  Value is a percentage (0–100) taken off the running total
// after the built-in ticket-type discounts.  Redemption checks the
// active flag, the validity window, the usage limit and the minimum
// quantity; UsageCount is incremented inside the booking transaction.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event the code is valid for.
//  Code        – code string, unique per event, stored upper-case.
//  Value       – percentage discount in [0,100].
//  MinQuantity – smallest booking quantity the code applies to.
//  ValidFrom   – start of validity window (nil = no lower bound).
//  ValidUntil  – end of validity window (nil = no upper bound).
//  UsageCount  – times the code has been redeemed.
//  UsageLimit  – maximum redemptions (nil = unlimited).
//  IsActive    – inactive codes are never redeemable.
//  CreatedAt   – creation timestamp.
type DiscountCode struct {
	ID          uint64     // discount_codes.id
	EventID     uint64     // discount_codes.event_id
	Code        string     // discount_codes.code
	Value       float64    // discount_codes.value
	MinQuantity int        // discount_codes.min_quantity
	ValidFrom   *time.Time // discount_codes.valid_from (nullable)
	ValidUntil  *time.Time // discount_codes.valid_until (nullable)
	UsageCount  int        // discount_codes.usage_count
	UsageLimit  *int       // discount_codes.usage_limit (nullable)
	IsActive    bool       // discount_codes.is_active
	CreatedAt   time.Time  // discount_codes.created_at
}

// RedeemableAt reports whether the code may be redeemed at the given
// instant for the given quantity.  The event scope and active flag are
// assumed to have been matched by the lookup query.
func (d *DiscountCode) RedeemableAt(at time.Time, quantity int) bool {
	if d.ValidFrom != nil && at.Before(*d.ValidFrom) {
		return false
	}
	if d.ValidUntil != nil && at.After(*d.ValidUntil) {
		return false
	}
	if d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit {
		return false
	}
	if quantity < d.MinQuantity {
		return false
	}
	return true
}
