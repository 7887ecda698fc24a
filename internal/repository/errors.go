// Package repository implements data access over MySQL.  This file
// defines sentinel errors shared across repositories so that handlers
// can map failure scenarios onto HTTP status codes with errors.Is.
package repository

import "errors"

// ErrEventNotFound is returned when an event lookup matches no row.
var ErrEventNotFound = errors.New("event not found")

// ErrTicketTypeNotFound is returned when a ticket type lookup matches
// no row.  Handlers translate this into a 404 response.
var ErrTicketTypeNotFound = errors.New("ticket type not found")

// ErrDiscountCodeNotFound is returned when no active discount code with
// the given code exists for the event.
var ErrDiscountCodeNotFound = errors.New("discount code not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTicketNotFound is returned when a ticket lookup matches no row.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSoldOut is returned when reserving inventory would push
// quantity_sold past quantity_available.  Handlers translate this into
// a 409 response.
var ErrSoldOut = errors.New("ticket type sold out")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as cancelling an already-cancelled booking or
// checking in a used ticket.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")
