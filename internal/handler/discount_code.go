package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/model"
	"github.com/gatherly/event-booking/internal/repository"
)

// DiscountCodeHandler exposes organizer-side discount code management.
type DiscountCodeHandler struct {
	Events *repository.EventRepo
	Codes  *repository.DiscountCodeRepo
}

func NewDiscountCodeHandler(events *repository.EventRepo, codes *repository.DiscountCodeRepo) *DiscountCodeHandler {
	return &DiscountCodeHandler{Events: events, Codes: codes}
}

type discountCodeReq struct {
	Code        string   `json:"code"`
	Value       *float64 `json:"value"` // percentage, 0-100
	MinQuantity int      `json:"min_quantity"`
	ValidFrom   *string  `json:"valid_from"`  // RFC3339, optional
	ValidUntil  *string  `json:"valid_until"` // RFC3339, optional
	UsageLimit  *int     `json:"usage_limit"`
	IsActive    *bool    `json:"is_active"`
}

type discountCodeJSON struct {
	ID          uint64  `json:"id"`
	EventID     uint64  `json:"event_id"`
	Code        string  `json:"code"`
	Value       float64 `json:"value"`
	MinQuantity int     `json:"min_quantity"`
	ValidFrom   *string `json:"valid_from,omitempty"`
	ValidUntil  *string `json:"valid_until,omitempty"`
	UsageCount  int     `json:"usage_count"`
	UsageLimit  *int    `json:"usage_limit,omitempty"`
	IsActive    bool    `json:"is_active"`
}

func toDiscountCodeJSON(dc *model.DiscountCode) discountCodeJSON {
	out := discountCodeJSON{
		ID:          dc.ID,
		EventID:     dc.EventID,
		Code:        dc.Code,
		Value:       dc.Value,
		MinQuantity: dc.MinQuantity,
		UsageCount:  dc.UsageCount,
		UsageLimit:  dc.UsageLimit,
		IsActive:    dc.IsActive,
	}
	if dc.ValidFrom != nil {
		s := dc.ValidFrom.UTC().Format(time.RFC3339)
		out.ValidFrom = &s
	}
	if dc.ValidUntil != nil {
		s := dc.ValidUntil.UTC().Format(time.RFC3339)
		out.ValidUntil = &s
	}
	return out
}

func (h *DiscountCodeHandler) requireOwnership(c echo.Context, eventID, userID uint64) bool {
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

// CreateDiscountCode handles POST /v1/events/:id/discount-codes.
func (h *DiscountCodeHandler) CreateDiscountCode(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req discountCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	if req.Value == nil || *req.Value <= 0 || *req.Value > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "value must be a percentage in (0,100]"})
	}
	if req.MinQuantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_quantity must be non-negative"})
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "usage_limit must be positive"})
	}
	if !h.requireOwnership(c, eventID, userID) {
		return nil
	}

	dc := &model.DiscountCode{
		EventID:     eventID,
		Code:        req.Code,
		Value:       *req.Value,
		MinQuantity: req.MinQuantity,
		UsageLimit:  req.UsageLimit,
		IsActive:    true,
	}
	if req.IsActive != nil {
		dc.IsActive = *req.IsActive
	}
	if req.ValidFrom != nil && *req.ValidFrom != "" {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid valid_from"})
		}
		u := t.UTC()
		dc.ValidFrom = &u
	}
	if req.ValidUntil != nil && *req.ValidUntil != "" {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid valid_until"})
		}
		u := t.UTC()
		dc.ValidUntil = &u
	}
	if dc.ValidFrom != nil && dc.ValidUntil != nil && dc.ValidUntil.Before(*dc.ValidFrom) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until must not precede valid_from"})
	}

	if err := h.Codes.Create(c.Request().Context(), dc); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create discount code failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"discount_code": toDiscountCodeJSON(dc)})
}

// ListDiscountCodes handles GET /v1/events/:id/discount-codes.
func (h *DiscountCodeHandler) ListDiscountCodes(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if !h.requireOwnership(c, eventID, userID) {
		return nil
	}
	codes, err := h.Codes.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load discount codes"})
	}
	items := make([]discountCodeJSON, 0, len(codes))
	for i := range codes {
		items = append(items, toDiscountCodeJSON(&codes[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
