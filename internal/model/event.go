package model

import "time"

// Event is a scheduled happening that tickets are sold for.  Events are
// managed by organizers; the booking pipeline only reads them to verify
// that a ticket type belongs to the event named in the request.
//
// Fields:
//  ID          – primary key identifier.
//  OrganizerID – user who owns and manages the event.
//  Title       – display title.
//  Venue       – free-form venue description.
//  StartsAt    – when the event begins (UTC).
//  EndsAt      – when the event ends (UTC).
//  IsPublished – whether the event is visible to attendees.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Event struct {
	ID          uint64    // events.id
	OrganizerID uint64    // events.organizer_id
	Title       string    // events.title
	Venue       string    // events.venue
	StartsAt    time.Time // events.starts_at
	EndsAt      time.Time // events.ends_at
	IsPublished bool      // events.is_published
	CreatedAt   time.Time // events.created_at
	UpdatedAt   time.Time // events.updated_at
}
