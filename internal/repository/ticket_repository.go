package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gatherly/event-booking/internal/model"
)

// TicketRepo persists individual tickets.  Tickets are written in bulk
// inside the booking transaction and mutated only by check-in.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// InsertBulkTx inserts all tickets of a booking in a single statement
// within the provided transaction.  Ticket IDs are populated from the
// first generated ID; the rows of one multi-row insert receive
// consecutive auto-increment values.  An empty slice is a no-op.
func (r *TicketRepo) InsertBulkTx(ctx context.Context, tx *sql.Tx, tickets []*model.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	query := `INSERT INTO tickets
	          (number, booking_id, ticket_type_id, holder_name, holder_email, holder_phone, unit_price, check_in_token)
	          VALUES `
	args := make([]interface{}, 0, len(tickets)*8)
	for i, t := range tickets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, t.Number, t.BookingID, t.TicketTypeID,
			t.HolderName, t.HolderEmail, t.HolderPhone, t.UnitPrice, t.CheckInToken)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	firstID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i, t := range tickets {
		t.ID = uint64(firstID) + uint64(i)
	}
	return nil
}

// ListByBooking returns the tickets of a booking in insertion order.
func (r *TicketRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, number, booking_id, ticket_type_id, holder_name, holder_email, holder_phone,
	                  unit_price, check_in_token, checked_in, checked_in_at, created_at
	           FROM tickets WHERE booking_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		var name, email, phone sql.NullString
		var checkedAt sql.NullTime
		if err := rows.Scan(
			&t.ID, &t.Number, &t.BookingID, &t.TicketTypeID, &name, &email, &phone,
			&t.UnitPrice, &t.CheckInToken, &t.CheckedIn, &checkedAt, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		if name.Valid {
			v := name.String
			t.HolderName = &v
		}
		if email.Valid {
			v := email.String
			t.HolderEmail = &v
		}
		if phone.Valid {
			v := phone.String
			t.HolderPhone = &v
		}
		if checkedAt.Valid {
			v := checkedAt.Time
			t.CheckedInAt = &v
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// CheckIn marks a ticket used, enforcing that the caller organizes the
// event the ticket was sold for and that the ticket has not been used
// before.  The one-shot guard lives in the UPDATE's WHERE clause, so
// two gate scans of the same ticket cannot both succeed.  It returns
// ErrTicketNotFound, ErrForbidden or ErrConflict accordingly.
func (r *TicketRepo) CheckIn(ctx context.Context, number string, organizerID uint64) error {
	// Resolve ownership and current state first for a precise error.
	const sel = `SELECT e.organizer_id, t.checked_in
	             FROM tickets t
	             JOIN bookings b ON b.id = t.booking_id
	             JOIN events e ON e.id = b.event_id
	             WHERE t.number = ?`
	var ownerID uint64
	var checkedIn bool
	err := r.db.QueryRowContext(ctx, sel, number).Scan(&ownerID, &checkedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTicketNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != organizerID {
		return ErrForbidden
	}
	if checkedIn {
		return ErrConflict
	}

	const upd = `UPDATE tickets SET checked_in = 1, checked_in_at = NOW() WHERE number = ? AND checked_in = 0`
	res, err := r.db.ExecContext(ctx, upd, number)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Lost the race against another scan between the read and the update.
		return ErrConflict
	}
	return nil
}
