package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gatherly/event-booking/internal/model"
)

// TicketTypeRepo provides persistence for ticket types: the catalog the
// booking pipeline reads prices and discount schedules from, and the
// inventory counters it moves when a booking commits.
type TicketTypeRepo struct {
	db *sql.DB
}

// NewTicketTypeRepo returns a TicketTypeRepo bound to the given database.
func NewTicketTypeRepo(db *sql.DB) *TicketTypeRepo { return &TicketTypeRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *TicketTypeRepo) DB() *sql.DB { return r.db }

const ticketTypeColumns = `id, event_id, name, price, quantity_available, quantity_sold,
	early_bird_deadline, early_bird_discount, group_discount_min, group_discount,
	is_active, created_at, updated_at`

func scanTicketType(row *sql.Row) (*model.TicketType, error) {
	var tt model.TicketType
	var deadline sql.NullTime
	err := row.Scan(
		&tt.ID, &tt.EventID, &tt.Name, &tt.Price, &tt.QuantityAvailable, &tt.QuantitySold,
		&deadline, &tt.EarlyBirdDiscount, &tt.GroupDiscountMin, &tt.GroupDiscount,
		&tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		d := deadline.Time
		tt.EarlyBirdDeadline = &d
	}
	return &tt, nil
}

// Create inserts a new ticket type and populates the generated ID.
func (r *TicketTypeRepo) Create(ctx context.Context, tt *model.TicketType) error {
	const q = `INSERT INTO ticket_types
	           (event_id, name, price, quantity_available, early_bird_deadline,
	            early_bird_discount, group_discount_min, group_discount, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		tt.EventID, tt.Name, tt.Price, tt.QuantityAvailable, tt.EarlyBirdDeadline,
		tt.EarlyBirdDiscount, tt.GroupDiscountMin, tt.GroupDiscount, tt.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tt.ID = uint64(id)
	return nil
}

// GetByID returns the ticket type with the given ID or
// ErrTicketTypeNotFound.  Inactive types are returned as-is; callers
// decide whether inactivity is an error.
func (r *TicketTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TicketType, error) {
	tt, err := scanTicketType(r.db.QueryRowContext(ctx,
		`SELECT `+ticketTypeColumns+` FROM ticket_types WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return tt, nil
}

// ListByEvent returns the ticket types of an event, optionally
// restricted to active ones, ordered by price.
func (r *TicketTypeRepo) ListByEvent(ctx context.Context, eventID uint64, activeOnly bool) ([]model.TicketType, error) {
	q := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE event_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY price`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make([]model.TicketType, 0)
	for rows.Next() {
		var tt model.TicketType
		var deadline sql.NullTime
		if err := rows.Scan(
			&tt.ID, &tt.EventID, &tt.Name, &tt.Price, &tt.QuantityAvailable, &tt.QuantitySold,
			&deadline, &tt.EarlyBirdDiscount, &tt.GroupDiscountMin, &tt.GroupDiscount,
			&tt.IsActive, &tt.CreatedAt, &tt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if deadline.Valid {
			d := deadline.Time
			tt.EarlyBirdDeadline = &d
		}
		types = append(types, tt)
	}
	return types, rows.Err()
}

// Update persists the mutable fields of a ticket type.
func (r *TicketTypeRepo) Update(ctx context.Context, tt *model.TicketType) error {
	const q = `UPDATE ticket_types
	           SET name = ?, price = ?, quantity_available = ?, early_bird_deadline = ?,
	               early_bird_discount = ?, group_discount_min = ?, group_discount = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		tt.Name, tt.Price, tt.QuantityAvailable, tt.EarlyBirdDeadline,
		tt.EarlyBirdDiscount, tt.GroupDiscountMin, tt.GroupDiscount, tt.IsActive, tt.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTicketTypeNotFound
	}
	return nil
}

// Deactivate flips a ticket type inactive so it can no longer be
// booked.  Rows are never deleted because tickets reference them.
func (r *TicketTypeRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ticket_types SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTicketTypeNotFound
	}
	return nil
}

// ReserveQuantityTx moves quantity_sold forward by quantity inside the
// given transaction, but only when enough inventory remains.  The guard
// lives in the WHERE clause, so two concurrent bookings can never both
// take the last units: the second one affects zero rows and gets
// ErrSoldOut.
func (r *TicketTypeRepo) ReserveQuantityTx(ctx context.Context, tx *sql.Tx, id uint64, quantity int) error {
	const q = `UPDATE ticket_types
	           SET quantity_sold = quantity_sold + ?
	           WHERE id = ? AND is_active = 1 AND quantity_sold + ? <= quantity_available`
	res, err := tx.ExecContext(ctx, q, quantity, id, quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSoldOut
	}
	return nil
}

// ReleaseQuantityTx gives quantity units back to the inventory when a
// booking is cancelled.  The counter is floored at zero.
func (r *TicketTypeRepo) ReleaseQuantityTx(ctx context.Context, tx *sql.Tx, id uint64, quantity int) error {
	const q = `UPDATE ticket_types
	           SET quantity_sold = CASE WHEN quantity_sold >= ? THEN quantity_sold - ? ELSE 0 END
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, quantity, quantity, id)
	return err
}
