package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/model"
	"github.com/gatherly/event-booking/internal/repository"
)

// EventHandler exposes organizer-side event management and the public
// browse endpoints.
type EventHandler struct {
	Events   *repository.EventRepo
	Bookings *repository.BookingRepo
}

func NewEventHandler(events *repository.EventRepo, bookings *repository.BookingRepo) *EventHandler {
	return &EventHandler{Events: events, Bookings: bookings}
}

type createEventReq struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	StartsAt    string `json:"starts_at"` // RFC3339
	EndsAt      string `json:"ends_at"`   // RFC3339
	IsPublished bool   `json:"is_published"`
}

type eventJSON struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	IsPublished bool   `json:"is_published"`
}

func toEventJSON(ev *model.Event) eventJSON {
	return eventJSON{
		ID:          ev.ID,
		Title:       ev.Title,
		Venue:       ev.Venue,
		StartsAt:    ev.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:      ev.EndsAt.UTC().Format(time.RFC3339),
		IsPublished: ev.IsPublished,
	}
}

// CreateEvent handles POST /v1/events (organizer only).
func (h *EventHandler) CreateEvent(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	starts, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at"})
	}
	ends, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at"})
	}
	if !ends.After(starts) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}

	ev := &model.Event{
		OrganizerID: userID,
		Title:       req.Title,
		Venue:       req.Venue,
		StartsAt:    starts.UTC(),
		EndsAt:      ends.UTC(),
		IsPublished: req.IsPublished,
	}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"event": toEventJSON(ev)})
}

// ListEvents handles GET /v1/events: all published events, for anyone.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListPublished(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	items := make([]eventJSON, 0, len(events))
	for i := range events {
		items = append(items, toEventJSON(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	if !ev.IsPublished {
		// Unpublished events stay invisible to the public surface.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": toEventJSON(ev)})
}

// ListEventBookings handles GET /v1/events/:id/bookings: the organizer's
// view of everything booked for their event.
func (h *EventHandler) ListEventBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	bookings, err := h.Bookings.ListByEventForOrganizer(c.Request().Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingJSON, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingJSON(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
