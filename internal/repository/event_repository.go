package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gatherly/event-booking/internal/model"
)

// EventRepo provides persistence for events.  The booking core only
// reads events; creation and publishing belong to organizers.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

// Create inserts a new event owned by the given organizer and
// populates the generated ID on the model.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events (organizer_id, title, venue, starts_at, ends_at, is_published)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, ev.OrganizerID, ev.Title, ev.Venue, ev.StartsAt, ev.EndsAt, ev.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// GetByID returns the event with the given ID or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, organizer_id, title, venue, starts_at, ends_at, is_published, created_at, updated_at
	           FROM events WHERE id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.OrganizerID, &ev.Title, &ev.Venue,
		&ev.StartsAt, &ev.EndsAt, &ev.IsPublished, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// OwnerOf returns the organizer ID of the event, or ErrEventNotFound.
func (r *EventRepo) OwnerOf(ctx context.Context, eventID uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx, `SELECT organizer_id FROM events WHERE id = ?`, eventID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrEventNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

// ListPublished returns all published events, newest first.
func (r *EventRepo) ListPublished(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT id, organizer_id, title, venue, starts_at, ends_at, is_published, created_at, updated_at
	           FROM events WHERE is_published = 1 ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(
			&ev.ID, &ev.OrganizerID, &ev.Title, &ev.Venue,
			&ev.StartsAt, &ev.EndsAt, &ev.IsPublished, &ev.CreatedAt, &ev.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
