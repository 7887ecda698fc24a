package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/gatherly/event-booking/internal/model"
)

// DiscountCodeRepo provides persistence for event-scoped promotional
// codes.  The booking pipeline reads codes at redemption time and
// increments usage_count inside the booking transaction.
type DiscountCodeRepo struct {
	db *sql.DB
}

// NewDiscountCodeRepo returns a DiscountCodeRepo bound to the database.
func NewDiscountCodeRepo(db *sql.DB) *DiscountCodeRepo { return &DiscountCodeRepo{db: db} }

const discountColumns = `id, event_id, code, value, min_quantity, valid_from, valid_until,
	usage_count, usage_limit, is_active, created_at`

// Create inserts a new discount code.  Codes are stored upper-case so
// redemption is case-insensitive.  A duplicate code for the same event
// surfaces as ErrConflict.
func (r *DiscountCodeRepo) Create(ctx context.Context, dc *model.DiscountCode) error {
	dc.Code = strings.ToUpper(strings.TrimSpace(dc.Code))
	const q = `INSERT INTO discount_codes
	           (event_id, code, value, min_quantity, valid_from, valid_until, usage_limit, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		dc.EventID, dc.Code, dc.Value, dc.MinQuantity, dc.ValidFrom, dc.ValidUntil, dc.UsageLimit, dc.IsActive)
	if err != nil {
		// 1062 is MySQL's duplicate-entry error on the (event_id, code) key.
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	dc.ID = uint64(id)
	return nil
}

// GetActiveByCode returns the active code with the given string for the
// event, or ErrDiscountCodeNotFound.  Window, usage-limit and quantity
// checks are the caller's job; this lookup only filters on scope and
// the active flag.
func (r *DiscountCodeRepo) GetActiveByCode(ctx context.Context, code string, eventID uint64) (*model.DiscountCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	const q = `SELECT ` + discountColumns + `
	           FROM discount_codes WHERE code = ? AND event_id = ? AND is_active = 1`
	var dc model.DiscountCode
	var from, until sql.NullTime
	var limit sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, code, eventID).Scan(
		&dc.ID, &dc.EventID, &dc.Code, &dc.Value, &dc.MinQuantity, &from, &until,
		&dc.UsageCount, &limit, &dc.IsActive, &dc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDiscountCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	if from.Valid {
		t := from.Time
		dc.ValidFrom = &t
	}
	if until.Valid {
		t := until.Time
		dc.ValidUntil = &t
	}
	if limit.Valid {
		n := int(limit.Int64)
		dc.UsageLimit = &n
	}
	return &dc, nil
}

// ListByEvent returns all codes of an event, newest first.
func (r *DiscountCodeRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.DiscountCode, error) {
	const q = `SELECT ` + discountColumns + `
	           FROM discount_codes WHERE event_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := make([]model.DiscountCode, 0)
	for rows.Next() {
		var dc model.DiscountCode
		var from, until sql.NullTime
		var limit sql.NullInt64
		if err := rows.Scan(
			&dc.ID, &dc.EventID, &dc.Code, &dc.Value, &dc.MinQuantity, &from, &until,
			&dc.UsageCount, &limit, &dc.IsActive, &dc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if from.Valid {
			t := from.Time
			dc.ValidFrom = &t
		}
		if until.Valid {
			t := until.Time
			dc.ValidUntil = &t
		}
		if limit.Valid {
			n := int(limit.Int64)
			dc.UsageLimit = &n
		}
		codes = append(codes, dc)
	}
	return codes, rows.Err()
}

// IncrementUsageTx bumps usage_count inside the booking transaction,
// still guarded by the usage limit so a concurrent redemption cannot
// push the count past it.  Zero affected rows means the limit was hit
// between lookup and commit, which surfaces as ErrConflict.
func (r *DiscountCodeRepo) IncrementUsageTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE discount_codes
	           SET usage_count = usage_count + 1
	           WHERE id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
