package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/model"
	"github.com/gatherly/event-booking/internal/repository"
)

// TicketTypeHandler exposes ticket-type management for organizers and
// the public catalog listing attendees browse before booking.
type TicketTypeHandler struct {
	Events      *repository.EventRepo
	TicketTypes *repository.TicketTypeRepo
}

func NewTicketTypeHandler(events *repository.EventRepo, types *repository.TicketTypeRepo) *TicketTypeHandler {
	return &TicketTypeHandler{Events: events, TicketTypes: types}
}

type ticketTypeReq struct {
	Name              string   `json:"name"`
	Price             *float64 `json:"price"`
	QuantityAvailable *int     `json:"quantity_available"`
	EarlyBirdDeadline *string  `json:"early_bird_deadline"` // RFC3339, optional
	EarlyBirdDiscount *float64 `json:"early_bird_discount"`
	GroupDiscountMin  *int     `json:"group_discount_min"`
	GroupDiscount     *float64 `json:"group_discount"`
	IsActive          *bool    `json:"is_active"`
}

type ticketTypeJSON struct {
	ID                uint64  `json:"id"`
	EventID           uint64  `json:"event_id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	QuantityAvailable int     `json:"quantity_available"`
	QuantitySold      int     `json:"quantity_sold"`
	Remaining         int     `json:"remaining"`
	EarlyBirdDeadline *string `json:"early_bird_deadline,omitempty"`
	EarlyBirdDiscount float64 `json:"early_bird_discount"`
	GroupDiscountMin  int     `json:"group_discount_min"`
	GroupDiscount     float64 `json:"group_discount"`
	IsActive          bool    `json:"is_active"`
}

func toTicketTypeJSON(tt *model.TicketType) ticketTypeJSON {
	out := ticketTypeJSON{
		ID:                tt.ID,
		EventID:           tt.EventID,
		Name:              tt.Name,
		Price:             tt.Price,
		QuantityAvailable: tt.QuantityAvailable,
		QuantitySold:      tt.QuantitySold,
		Remaining:         tt.Remaining(),
		EarlyBirdDiscount: tt.EarlyBirdDiscount,
		GroupDiscountMin:  tt.GroupDiscountMin,
		GroupDiscount:     tt.GroupDiscount,
		IsActive:          tt.IsActive,
	}
	if tt.EarlyBirdDeadline != nil {
		s := tt.EarlyBirdDeadline.UTC().Format(time.RFC3339)
		out.EarlyBirdDeadline = &s
	}
	return out
}

// requireOwnership resolves the event's organizer and compares it to
// the caller.  Writes an error response and returns false on failure.
func (h *TicketTypeHandler) requireOwnership(c echo.Context, eventID, userID uint64) bool {
	ownerID, err := h.Events.OwnerOf(c.Request().Context(), eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
		}
		return false
	}
	if ownerID != userID {
		_ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		return false
	}
	return true
}

// CreateTicketType handles POST /v1/events/:id/ticket-types.
func (h *TicketTypeHandler) CreateTicketType(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req ticketTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Price == nil || *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a non-negative price are required"})
	}
	if req.QuantityAvailable == nil || *req.QuantityAvailable <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity_available must be positive"})
	}
	if !h.requireOwnership(c, eventID, userID) {
		return nil
	}

	tt := &model.TicketType{
		EventID:           eventID,
		Name:              req.Name,
		Price:             *req.Price,
		QuantityAvailable: *req.QuantityAvailable,
		IsActive:          true,
	}
	if req.IsActive != nil {
		tt.IsActive = *req.IsActive
	}
	if err := applyDiscountFields(tt, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.TicketTypes.Create(c.Request().Context(), tt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket type failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"ticket_type": toTicketTypeJSON(tt)})
}

// applyDiscountFields validates and copies the optional discount
// schedule fields onto the model.  Rates are fractions in [0,1].
func applyDiscountFields(tt *model.TicketType, req *ticketTypeReq) error {
	if req.EarlyBirdDeadline != nil && *req.EarlyBirdDeadline != "" {
		d, err := time.Parse(time.RFC3339, *req.EarlyBirdDeadline)
		if err != nil {
			return errors.New("invalid early_bird_deadline")
		}
		u := d.UTC()
		tt.EarlyBirdDeadline = &u
	}
	if req.EarlyBirdDiscount != nil {
		if *req.EarlyBirdDiscount < 0 || *req.EarlyBirdDiscount > 1 {
			return errors.New("early_bird_discount must be in [0,1]")
		}
		tt.EarlyBirdDiscount = *req.EarlyBirdDiscount
	}
	if req.GroupDiscountMin != nil {
		if *req.GroupDiscountMin < 0 {
			return errors.New("group_discount_min must be non-negative")
		}
		tt.GroupDiscountMin = *req.GroupDiscountMin
	}
	if req.GroupDiscount != nil {
		if *req.GroupDiscount < 0 || *req.GroupDiscount > 1 {
			return errors.New("group_discount must be in [0,1]")
		}
		tt.GroupDiscount = *req.GroupDiscount
	}
	return nil
}

// ListTicketTypes handles GET /v1/events/:id/ticket-types.  The public
// listing only shows active types of published events.
func (h *TicketTypeHandler) ListTicketTypes(c echo.Context) error {
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	if !ev.IsPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	types, err := h.TicketTypes.ListByEvent(ctx, eventID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ticket types"})
	}
	items := make([]ticketTypeJSON, 0, len(types))
	for i := range types {
		items = append(items, toTicketTypeJSON(&types[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateTicketType handles PATCH /v1/ticket-types/:id.  Only fields
// present in the body are changed.
func (h *TicketTypeHandler) UpdateTicketType(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket type id"})
	}
	var req ticketTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	tt, err := h.TicketTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ticket type"})
	}
	if !h.requireOwnership(c, tt.EventID, userID) {
		return nil
	}

	if req.Name != "" {
		tt.Name = req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
		}
		tt.Price = *req.Price
	}
	if req.QuantityAvailable != nil {
		if *req.QuantityAvailable < tt.QuantitySold {
			return c.JSON(http.StatusConflict, echo.Map{"error": "quantity_available cannot drop below quantity_sold"})
		}
		tt.QuantityAvailable = *req.QuantityAvailable
	}
	if req.IsActive != nil {
		tt.IsActive = *req.IsActive
	}
	if err := applyDiscountFields(tt, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.TicketTypes.Update(ctx, tt); err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update ticket type failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket_type": toTicketTypeJSON(tt)})
}

// DeactivateTicketType handles DELETE /v1/ticket-types/:id.  Types are
// deactivated, never deleted, since sold tickets reference them.
func (h *TicketTypeHandler) DeactivateTicketType(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket type id"})
	}
	ctx := c.Request().Context()
	tt, err := h.TicketTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ticket type"})
	}
	if !h.requireOwnership(c, tt.EventID, userID) {
		return nil
	}
	if err := h.TicketTypes.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTicketTypeNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket type already inactive"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate ticket type failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
