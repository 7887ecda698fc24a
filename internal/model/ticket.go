package model

import "time"

// Ticket is one individual admission instance belonging to exactly one
// booking.  The ticket number is the booking reference plus a 1-based
// index, so it is unique without relying on wall-clock granularity.
// UnitPrice is captured at booking time and stays fixed even if the
// ticket type's price later changes.
//
// Fields:
//  ID           – primary key identifier.
//  Number       – ticket number, e.g. "BKG-1A2B3C4D-2".
//  BookingID    – owning booking.
//  TicketTypeID – class of ticket.
//  HolderName   – attendee name printed on the ticket (nullable).
//  HolderEmail  – attendee email (nullable).
//  HolderPhone  – attendee phone (nullable).
//  UnitPrice    – ticket-type price at booking time.
//  CheckInToken – opaque token presented at the gate.
//  CheckedIn    – whether the ticket has been used.
//  CheckedInAt  – when the ticket was used (nullable).
//  CreatedAt    – creation timestamp.
type Ticket struct {
	ID           uint64     // tickets.id
	Number       string     // tickets.number
	BookingID    uint64     // tickets.booking_id
	TicketTypeID uint64     // tickets.ticket_type_id
	HolderName   *string    // tickets.holder_name (nullable)
	HolderEmail  *string    // tickets.holder_email (nullable)
	HolderPhone  *string    // tickets.holder_phone (nullable)
	UnitPrice    float64    // tickets.unit_price
	CheckInToken string     // tickets.check_in_token
	CheckedIn    bool       // tickets.checked_in
	CheckedInAt  *time.Time // tickets.checked_in_at (nullable)
	CreatedAt    time.Time  // tickets.created_at
}

// AttendeeDetail carries the optional per-seat holder information
// supplied with a booking request.  Entries map positionally onto
// tickets; missing entries leave the holder fields empty.
type AttendeeDetail struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
