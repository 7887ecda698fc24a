package model

import "time"

// Booking statuses.  A booking is created as StatusPending and treated
// as booked immediately; payment confirmation is a label only.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking records one purchase transaction covering one or more
// tickets.  Monetary fields are computed once by the pricing engine at
// creation time and never recomputed; total = subtotal − discount + tax.
//
// Fields:
//  ID             – primary key identifier.
//  Reference      – human-readable booking reference ("BKG-" + hex).
//  EventID        – event being booked.
//  AttendeeID     – user who made the booking.
//  TicketTypeID   – class of ticket booked.
//  TotalTickets   – number of tickets in the booking.
//  Subtotal       – unit price × quantity before discounts.
//  DiscountAmount – sum of all discounts taken off the subtotal.
//  TaxAmount      – tax on the discounted running total.
//  TotalAmount    – final amount charged.
//  Status         – pending, confirmed or cancelled.
//  DiscountCode   – code redeemed for this booking, if any.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	Reference      string    // bookings.reference
	EventID        uint64    // bookings.event_id
	AttendeeID     uint64    // bookings.attendee_id
	TicketTypeID   uint64    // bookings.ticket_type_id
	TotalTickets   int       // bookings.total_tickets
	Subtotal       float64   // bookings.subtotal
	DiscountAmount float64   // bookings.discount_amount
	TaxAmount      float64   // bookings.tax_amount
	TotalAmount    float64   // bookings.total_amount
	Status         string    // bookings.status
	DiscountCode   *string   // bookings.discount_code (nullable)
	CreatedAt      time.Time // bookings.created_at
	UpdatedAt      time.Time // bookings.updated_at
}
