package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gatherly/event-booking/internal/model"
)

// BookingRepo persists bookings and their tickets.  The write path is a
// single transaction covering the inventory reserve, the booking row,
// every ticket row and the discount usage increment, so a failure at
// any point leaves no partial booking behind.
type BookingRepo struct {
	db          *sql.DB
	ticketTypes *TicketTypeRepo
	discounts   *DiscountCodeRepo
	tickets     *TicketRepo
}

// NewBookingRepo returns a BookingRepo composed with the repositories
// whose Tx methods participate in the booking transaction.
func NewBookingRepo(db *sql.DB, ticketTypes *TicketTypeRepo, discounts *DiscountCodeRepo, tickets *TicketRepo) *BookingRepo {
	if db == nil || ticketTypes == nil || discounts == nil || tickets == nil {
		panic("nil dependency passed to NewBookingRepo")
	}
	return &BookingRepo{db: db, ticketTypes: ticketTypes, discounts: discounts, tickets: tickets}
}

const bookingColumns = `id, reference, event_id, attendee_id, ticket_type_id, total_tickets,
	subtotal, discount_amount, tax_amount, total_amount, status, discount_code,
	created_at, updated_at`

// CreateWithTickets atomically reserves inventory, inserts the booking
// row and its tickets, and (when a code was redeemed) increments the
// code's usage count.  Either everything commits or nothing does.  The
// generated IDs and timestamps are populated on the passed models.
// Returns ErrSoldOut when not enough inventory remains and ErrConflict
// when the discount code's usage limit was exhausted concurrently.
func (r *BookingRepo) CreateWithTickets(ctx context.Context, b *model.Booking, tickets []*model.Ticket, discountCodeID *uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := r.ticketTypes.ReserveQuantityTx(ctx, tx, b.TicketTypeID, b.TotalTickets); err != nil {
		return err
	}

	const ins = `INSERT INTO bookings
	             (reference, event_id, attendee_id, ticket_type_id, total_tickets,
	              subtotal, discount_amount, tax_amount, total_amount, status, discount_code)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.Reference, b.EventID, b.AttendeeID, b.TicketTypeID, b.TotalTickets,
		b.Subtotal, b.DiscountAmount, b.TaxAmount, b.TotalAmount, b.Status, b.DiscountCode)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Read the row back so defaults and timestamps land on the model.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}

	for _, t := range tickets {
		t.BookingID = b.ID
	}
	if err := r.tickets.InsertBulkTx(ctx, tx, tickets); err != nil {
		return err
	}

	if discountCodeID != nil {
		if err := r.discounts.IncrementUsageTx(ctx, tx, *discountCodeID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByReferenceForUser returns a booking by reference, enforcing that
// it belongs to the given attendee.  ErrBookingNotFound covers both a
// missing reference and one owned by someone else so references cannot
// be probed.
func (r *BookingRepo) GetByReferenceForUser(ctx context.Context, reference string, attendeeID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ? AND attendee_id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, reference, attendeeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ListByAttendee returns the attendee's bookings, newest first.
func (r *BookingRepo) ListByAttendee(ctx context.Context, attendeeID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE attendee_id = ? ORDER BY created_at DESC`
	return r.queryBookings(ctx, q, attendeeID)
}

// ListByEventForOrganizer returns the bookings of an event after
// verifying that the caller organizes it.  A missing event surfaces as
// ErrEventNotFound and foreign ownership as ErrForbidden, matching the
// handler's 404/403 mapping.
func (r *BookingRepo) ListByEventForOrganizer(ctx context.Context, eventID, organizerID uint64) ([]model.Booking, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, `SELECT organizer_id FROM events WHERE id = ?`, eventID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if ownerID != organizerID {
		return nil, ErrForbidden
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE event_id = ? ORDER BY created_at DESC`
	return r.queryBookings(ctx, q, eventID)
}

// Cancel marks a booking cancelled and returns its units to the ticket
// type's inventory, in one transaction.  The row is locked first so a
// concurrent cancel cannot release inventory twice.  Cancelling an
// already-cancelled booking returns ErrConflict.
func (r *BookingRepo) Cancel(ctx context.Context, reference string, attendeeID uint64) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, sel, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.AttendeeID != attendeeID {
		return nil, ErrForbidden
	}
	if b.Status == model.BookingStatusCancelled {
		return nil, ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, model.BookingStatusCancelled, b.ID); err != nil {
		return nil, err
	}
	if err := r.ticketTypes.ReleaseQuantityTx(ctx, tx, b.TicketTypeID, b.TotalTickets); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	b.Status = model.BookingStatusCancelled
	return b, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var code sql.NullString
	err := row.Scan(
		&b.ID, &b.Reference, &b.EventID, &b.AttendeeID, &b.TicketTypeID, &b.TotalTickets,
		&b.Subtotal, &b.DiscountAmount, &b.TaxAmount, &b.TotalAmount, &b.Status, &code,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if code.Valid {
		c := code.String
		b.DiscountCode = &c
	}
	return &b, nil
}

func (r *BookingRepo) queryBookings(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
