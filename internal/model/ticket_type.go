package model

import "time"

// TicketType is a purchasable class of admission for one event (e.g.
// "VIP", "General").  It carries the unit price, the inventory counters
// and the two built-in discount schedules.  The booking core treats it
// as read-only apart from the quantity_sold counter, which is only ever
// moved through a conditional update so that concurrent bookings cannot
// oversell.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – event this class belongs to.
//  Name              – display name of the class.
//  Price             – unit price in currency units (DECIMAL(10,2)).
//  QuantityAvailable – total sellable units.
//  QuantitySold      – units already sold; never exceeds QuantityAvailable.
//  EarlyBirdDeadline – bookings at or before this instant get the
//                      early-bird rate (nil disables the schedule).
//  EarlyBirdDiscount – early-bird rate in [0,1].
//  GroupDiscountMin  – minimum quantity that triggers the group rate.
//  GroupDiscount     – group rate in [0,1].
//  IsActive          – inactive types cannot be booked.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type TicketType struct {
	ID                uint64     // ticket_types.id
	EventID           uint64     // ticket_types.event_id
	Name              string     // ticket_types.name
	Price             float64    // ticket_types.price
	QuantityAvailable int        // ticket_types.quantity_available
	QuantitySold      int        // ticket_types.quantity_sold
	EarlyBirdDeadline *time.Time // ticket_types.early_bird_deadline (nullable)
	EarlyBirdDiscount float64    // ticket_types.early_bird_discount
	GroupDiscountMin  int        // ticket_types.group_discount_min
	GroupDiscount     float64    // ticket_types.group_discount
	IsActive          bool       // ticket_types.is_active
	CreatedAt         time.Time  // ticket_types.created_at
	UpdatedAt         time.Time  // ticket_types.updated_at
}

// Remaining returns the number of units still sellable.
func (t *TicketType) Remaining() int {
	n := t.QuantityAvailable - t.QuantitySold
	if n < 0 {
		return 0
	}
	return n
}
