package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gatherly/event-booking/internal/model"
	"github.com/gatherly/event-booking/internal/pricing"
	"github.com/gatherly/event-booking/internal/repository"
	"github.com/gatherly/event-booking/internal/service"
)

// BookingHandler exposes the booking pipeline and the attendee's
// read/cancel endpoints.  JWT authentication and the ATTENDEE role are
// enforced by middleware before any method here runs.
type BookingHandler struct {
	Service  *service.BookingService
	Bookings *repository.BookingRepo
	Tickets  *repository.TicketRepo
}

// NewBookingHandler constructs a BookingHandler; all dependencies must
// be non-nil.
func NewBookingHandler(svc *service.BookingService, bookings *repository.BookingRepo, tickets *repository.TicketRepo) *BookingHandler {
	if svc == nil || bookings == nil || tickets == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc, Bookings: bookings, Tickets: tickets}
}

// ----- DTOs -----

type bookReq struct {
	TicketTypeID    uint64                 `json:"ticket_type_id"`
	Quantity        int                    `json:"quantity"`
	AttendeeDetails []model.AttendeeDetail `json:"attendee_details"`
	DiscountCode    string                 `json:"discount_code"`
	BookingDate     string                 `json:"booking_date"` // RFC3339, optional
}

type bookingJSON struct {
	ID             uint64  `json:"id"`
	Reference      string  `json:"reference"`
	EventID        uint64  `json:"event_id"`
	TicketTypeID   uint64  `json:"ticket_type_id"`
	TotalTickets   int     `json:"total_tickets"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalAmount    float64 `json:"total_amount"`
	Status         string  `json:"status"`
	DiscountCode   *string `json:"discount_code,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type ticketJSON struct {
	Number      string  `json:"number"`
	HolderName  *string `json:"holder_name"`
	HolderEmail *string `json:"holder_email"`
	HolderPhone *string `json:"holder_phone"`
	UnitPrice   float64 `json:"unit_price"`
	CheckedIn   bool    `json:"checked_in"`
}

func toBookingJSON(b *model.Booking) bookingJSON {
	return bookingJSON{
		ID:             b.ID,
		Reference:      b.Reference,
		EventID:        b.EventID,
		TicketTypeID:   b.TicketTypeID,
		TotalTickets:   b.TotalTickets,
		Subtotal:       b.Subtotal,
		DiscountAmount: b.DiscountAmount,
		TaxAmount:      b.TaxAmount,
		TotalAmount:    b.TotalAmount,
		Status:         b.Status,
		DiscountCode:   b.DiscountCode,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toTicketJSON(t *model.Ticket) ticketJSON {
	return ticketJSON{
		Number:      t.Number,
		HolderName:  t.HolderName,
		HolderEmail: t.HolderEmail,
		HolderPhone: t.HolderPhone,
		UnitPrice:   t.UnitPrice,
		CheckedIn:   t.CheckedIn,
	}
}

// Book handles POST /v1/events/:id/bookings.  It runs the booking
// pipeline and returns the created booking, its tickets and the price
// breakdown.  Error mapping: 400 for an invalid ticket type or
// quantity, 409 when the type is sold out, 422 when strict discount
// validation rejects the code.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body bookReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TicketTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_type_id is required"})
	}
	if body.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
	}

	req := service.BookingRequest{
		EventID:         eventID,
		AttendeeID:      userID,
		TicketTypeID:    body.TicketTypeID,
		Quantity:        body.Quantity,
		AttendeeDetails: body.AttendeeDetails,
		DiscountCode:    body.DiscountCode,
	}
	if body.BookingDate != "" {
		at, err := time.Parse(time.RFC3339, body.BookingDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking_date"})
		}
		req.BookingDate = at.UTC()
	}

	res, err := h.Service.Book(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketTypeNotFound),
			errors.Is(err, pricing.ErrInactiveTicketType):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket type"})
		case errors.Is(err, pricing.ErrInvalidQuantity):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
		case errors.Is(err, repository.ErrSoldOut):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough tickets available"})
		case errors.Is(err, service.ErrDiscountCodeInvalid):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "discount code invalid or not redeemable"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "discount code no longer redeemable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	tickets := make([]ticketJSON, 0, len(res.Tickets))
	for _, t := range res.Tickets {
		tickets = append(tickets, toTicketJSON(t))
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking created",
		"booking": toBookingJSON(res.Booking),
		"tickets": tickets,
		"pricing": res.Pricing,
	})
}

// ListMyBookings handles GET /v1/my-bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByAttendee(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingJSON, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingJSON(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:ref.  It returns the booking
// with its tickets.  A reference that does not exist or belongs to a
// different attendee yields 404.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByReferenceForUser(ctx, ref, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	tickets, err := h.Tickets.ListByBooking(ctx, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	items := make([]ticketJSON, 0, len(tickets))
	for i := range tickets {
		items = append(items, toTicketJSON(&tickets[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking": toBookingJSON(b),
		"tickets": items,
	})
}

// CancelBooking handles DELETE /v1/bookings/:ref.  It marks the
// booking cancelled and returns its units to the inventory.  Returns
// 404 for an unknown reference, 403 for someone else's booking and 409
// when the booking is already cancelled.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ref := c.Param("ref")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	b, err := h.Bookings.Cancel(c.Request().Context(), ref, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingJSON(b)})
}
