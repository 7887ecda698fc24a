// Package service contains the booking orchestrator: the single entry
// point the HTTP layer calls to turn a booking request into a persisted
// booking with its tickets and price breakdown.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gatherly/event-booking/internal/config"
	"github.com/gatherly/event-booking/internal/model"
	"github.com/gatherly/event-booking/internal/pricing"
	"github.com/gatherly/event-booking/internal/queue"
	"github.com/gatherly/event-booking/internal/repository"
	"github.com/gatherly/event-booking/internal/utils"
)

// ErrDiscountCodeInvalid is returned in strict validation mode when a
// supplied discount code does not exist, is inactive, is outside its
// validity window, has exhausted its usage limit, or requires a larger
// quantity.  In lenient mode the booking proceeds with no code
// discount instead.
var ErrDiscountCodeInvalid = errors.New("discount code invalid or not redeemable")

// TicketTypeCatalog resolves ticket types by ID.
type TicketTypeCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.TicketType, error)
}

// DiscountCodeLedger resolves active, event-scoped discount codes.
type DiscountCodeLedger interface {
	GetActiveByCode(ctx context.Context, code string, eventID uint64) (*model.DiscountCode, error)
}

// BookingLedger persists a booking and its tickets as one atomic unit.
type BookingLedger interface {
	CreateWithTickets(ctx context.Context, b *model.Booking, tickets []*model.Ticket, discountCodeID *uint64) error
}

// ConfirmationPublisher announces committed bookings to the broker.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingRequest is the transport-independent shape of a booking
// attempt.  AttendeeDetails map positionally onto tickets; a zero
// BookingDate means "now".
type BookingRequest struct {
	EventID         uint64
	AttendeeID      uint64
	TicketTypeID    uint64
	Quantity        int
	AttendeeDetails []model.AttendeeDetail
	DiscountCode    string
	BookingDate     time.Time
}

// BookingResult is what a successful booking returns to the caller:
// the booking row, every materialized ticket and the rounded price
// breakdown.
type BookingResult struct {
	Booking *model.Booking
	Tickets []*model.Ticket
	Pricing pricing.Breakdown
}

// BookingService sequences catalog lookup, discount lookup, pricing,
// and the atomic persistence of the booking and its tickets.  It is the
// only component the HTTP layer talks to for bookings.
type BookingService struct {
	catalog   TicketTypeCatalog
	discounts DiscountCodeLedger
	bookings  BookingLedger
	publisher ConfirmationPublisher
	strict    bool
}

// NewBookingService constructs the orchestrator.  publisher may be nil
// when no broker is configured; discountMode is one of the
// config.DiscountValidation* constants.
func NewBookingService(catalog TicketTypeCatalog, discounts DiscountCodeLedger, bookings BookingLedger, publisher ConfirmationPublisher, discountMode string) *BookingService {
	if catalog == nil || discounts == nil || bookings == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		catalog:   catalog,
		discounts: discounts,
		bookings:  bookings,
		publisher: publisher,
		strict:    discountMode == config.DiscountValidationStrict,
	}
}

// Book runs the booking pipeline.  On success exactly quantity tickets
// exist for the new booking; on any failure nothing was persisted.
// Two identical calls create two distinct bookings.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	tt, err := s.catalog.GetByID(ctx, req.TicketTypeID)
	if err != nil {
		return nil, err
	}
	// A ticket type from another event is indistinguishable from a
	// missing one as far as this request is concerned.
	if tt.EventID != req.EventID {
		return nil, repository.ErrTicketTypeNotFound
	}

	at := req.BookingDate
	if at.IsZero() {
		at = time.Now().UTC()
	}

	code, codeID, err := s.resolveDiscount(ctx, req, at)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Quote(tt, req.Quantity, at, code)
	if err != nil {
		return nil, err
	}
	breakdown := quote.Rounded()

	ref, err := utils.NewBookingReference()
	if err != nil {
		return nil, err
	}

	booking := &model.Booking{
		Reference:      ref,
		EventID:        req.EventID,
		AttendeeID:     req.AttendeeID,
		TicketTypeID:   tt.ID,
		TotalTickets:   req.Quantity,
		Subtotal:       breakdown.Subtotal,
		DiscountAmount: breakdown.DiscountAmount,
		TaxAmount:      breakdown.TaxAmount,
		TotalAmount:    breakdown.TotalAmount,
		Status:         model.BookingStatusPending,
	}
	if code != nil {
		booking.DiscountCode = &code.Code
	}

	tickets := make([]*model.Ticket, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		t := &model.Ticket{
			Number:       utils.TicketNumber(ref, i),
			TicketTypeID: tt.ID,
			UnitPrice:    tt.Price,
			CheckInToken: uuid.NewString(),
		}
		if i < len(req.AttendeeDetails) {
			d := req.AttendeeDetails[i]
			if d.Name != "" {
				t.HolderName = &d.Name
			}
			if d.Email != "" {
				t.HolderEmail = &d.Email
			}
			if d.Phone != "" {
				t.HolderPhone = &d.Phone
			}
		}
		tickets = append(tickets, t)
	}

	if err := s.bookings.CreateWithTickets(ctx, booking, tickets, codeID); err != nil {
		return nil, err
	}

	s.announce(ctx, booking, tickets)

	return &BookingResult{Booking: booking, Tickets: tickets, Pricing: breakdown}, nil
}

// resolveDiscount looks up and validates the requested code.  In
// lenient mode every failure degrades to "no discount"; in strict mode
// it becomes ErrDiscountCodeInvalid.  Infrastructure errors always
// propagate.
func (s *BookingService) resolveDiscount(ctx context.Context, req BookingRequest, at time.Time) (*model.DiscountCode, *uint64, error) {
	raw := strings.TrimSpace(req.DiscountCode)
	if raw == "" {
		return nil, nil, nil
	}
	code, err := s.discounts.GetActiveByCode(ctx, raw, req.EventID)
	if errors.Is(err, repository.ErrDiscountCodeNotFound) {
		if s.strict {
			return nil, nil, ErrDiscountCodeInvalid
		}
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if !code.RedeemableAt(at, req.Quantity) {
		if s.strict {
			return nil, nil, ErrDiscountCodeInvalid
		}
		return nil, nil, nil
	}
	id := code.ID
	return code, &id, nil
}

// announce publishes the booking.confirmed event.  Publish failures are
// logged and swallowed: the booking is already committed and the
// response must not depend on the broker.
func (s *BookingService) announce(ctx context.Context, b *model.Booking, tickets []*model.Ticket) {
	if s.publisher == nil {
		return
	}
	numbers := make([]string, 0, len(tickets))
	for _, t := range tickets {
		numbers = append(numbers, t.Number)
	}
	ev := queue.BookingConfirmedEvent{
		Reference:    b.Reference,
		EventID:      b.EventID,
		AttendeeID:   b.AttendeeID,
		TicketTypeID: b.TicketTypeID,
		Quantity:     b.TotalTickets,
		TotalAmount:  b.TotalAmount,
		Tickets:      numbers,
		ConfirmedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.DiscountCode != nil {
		ev.DiscountCode = *b.DiscountCode
	}
	if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmation for %s failed: %v", b.Reference, err)
	}
}
