// Package queue defines the message payloads exchanged over the broker
// and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published after a booking transaction
// commits.  It carries enough for downstream consumers to log, notify
// or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	Reference    string   `json:"reference"`
	EventID      uint64   `json:"event_id"`
	AttendeeID   uint64   `json:"attendee_id"`
	TicketTypeID uint64   `json:"ticket_type_id"`
	Quantity     int      `json:"quantity"`
	TotalAmount  float64  `json:"total_amount"`
	DiscountCode string   `json:"discount_code,omitempty"`
	Tickets      []string `json:"tickets"`
	ConfirmedAt  string   `json:"confirmed_at"`
}
