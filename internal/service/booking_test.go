package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/event-booking/internal/config"
	"github.com/gatherly/event-booking/internal/model"
	"github.com/gatherly/event-booking/internal/queue"
	"github.com/gatherly/event-booking/internal/repository"
)

// ----- fakes -----

type fakeCatalog struct {
	types map[uint64]*model.TicketType
}

func (f *fakeCatalog) GetByID(_ context.Context, id uint64) (*model.TicketType, error) {
	tt, ok := f.types[id]
	if !ok {
		return nil, repository.ErrTicketTypeNotFound
	}
	cp := *tt
	return &cp, nil
}

type fakeLedger struct {
	codes map[string]*model.DiscountCode
}

func (f *fakeLedger) GetActiveByCode(_ context.Context, code string, eventID uint64) (*model.DiscountCode, error) {
	dc, ok := f.codes[code]
	if !ok || dc.EventID != eventID || !dc.IsActive {
		return nil, repository.ErrDiscountCodeNotFound
	}
	cp := *dc
	return &cp, nil
}

type persisted struct {
	booking *model.Booking
	tickets []*model.Ticket
	codeID  *uint64
}

type fakeStore struct {
	created  []persisted
	failWith error
	nextID   uint64
}

func (f *fakeStore) CreateWithTickets(_ context.Context, b *model.Booking, tickets []*model.Ticket, codeID *uint64) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now().UTC()
	for _, t := range tickets {
		t.BookingID = b.ID
	}
	f.created = append(f.created, persisted{booking: b, tickets: tickets, codeID: codeID})
	return nil
}

type fakePublisher struct {
	events []queue.BookingConfirmedEvent
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	f.events = append(f.events, ev)
	return nil
}

// ----- fixtures -----

func generalAdmission() *model.TicketType {
	return &model.TicketType{
		ID:                7,
		EventID:           3,
		Name:              "General",
		Price:             100,
		QuantityAvailable: 50,
		GroupDiscountMin:  1 << 30,
		IsActive:          true,
	}
}

func newService(t *testing.T, mode string, tt *model.TicketType, codes map[string]*model.DiscountCode) (*BookingService, *fakeStore, *fakePublisher) {
	t.Helper()
	if codes == nil {
		codes = map[string]*model.DiscountCode{}
	}
	store := &fakeStore{}
	pub := &fakePublisher{}
	catalog := &fakeCatalog{types: map[uint64]*model.TicketType{}}
	if tt != nil {
		catalog.types[tt.ID] = tt
	}
	return NewBookingService(catalog, &fakeLedger{codes: codes}, store, pub, mode), store, pub
}

func baseRequest() BookingRequest {
	return BookingRequest{
		EventID:      3,
		AttendeeID:   11,
		TicketTypeID: 7,
		Quantity:     2,
	}
}

// ----- tests -----

func TestBookCreatesBookingAndTickets(t *testing.T) {
	svc, store, pub := newService(t, config.DiscountValidationLenient, generalAdmission(), nil)
	req := baseRequest()
	req.AttendeeDetails = []model.AttendeeDetail{
		{Name: "Ada", Email: "ada@example.com", Phone: "111"},
		{Name: "Grace", Email: "grace@example.com"},
	}

	res, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	b := res.Booking
	assert.Regexp(t, `^BKG-[0-9A-F]{12}$`, b.Reference)
	assert.Equal(t, model.BookingStatusPending, b.Status)
	assert.Equal(t, 2, b.TotalTickets)
	assert.Equal(t, 200.0, b.Subtotal)
	assert.Equal(t, 0.0, b.DiscountAmount)
	assert.Equal(t, 36.0, b.TaxAmount)
	assert.Equal(t, 236.0, b.TotalAmount)
	assert.Nil(t, b.DiscountCode)

	require.Len(t, res.Tickets, 2)
	assert.Equal(t, b.Reference+"-1", res.Tickets[0].Number)
	assert.Equal(t, b.Reference+"-2", res.Tickets[1].Number)
	for _, tk := range res.Tickets {
		assert.Equal(t, b.ID, tk.BookingID)
		assert.Equal(t, 100.0, tk.UnitPrice)
		assert.NotEmpty(t, tk.CheckInToken)
	}
	assert.Equal(t, "Ada", *res.Tickets[0].HolderName)
	assert.Equal(t, "grace@example.com", *res.Tickets[1].HolderEmail)
	assert.Nil(t, res.Tickets[1].HolderPhone)

	require.Len(t, store.created, 1)
	assert.Nil(t, store.created[0].codeID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, b.Reference, pub.events[0].Reference)
	assert.Equal(t, []string{b.Reference + "-1", b.Reference + "-2"}, pub.events[0].Tickets)
}

func TestBookPartialAttendeeDetails(t *testing.T) {
	// Quantity 3 with only 2 detail entries: the third ticket is created
	// with empty holder fields.
	svc, _, _ := newService(t, config.DiscountValidationLenient, generalAdmission(), nil)
	req := baseRequest()
	req.Quantity = 3
	req.AttendeeDetails = []model.AttendeeDetail{{Name: "Ada"}, {Name: "Grace"}}

	res, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 3)
	assert.Nil(t, res.Tickets[2].HolderName)
	assert.Nil(t, res.Tickets[2].HolderEmail)
	assert.Nil(t, res.Tickets[2].HolderPhone)
}

func TestBookUnknownTicketType(t *testing.T) {
	svc, store, pub := newService(t, config.DiscountValidationLenient, nil, nil)
	_, err := svc.Book(context.Background(), baseRequest())
	assert.ErrorIs(t, err, repository.ErrTicketTypeNotFound)
	assert.Empty(t, store.created)
	assert.Empty(t, pub.events)
}

func TestBookTicketTypeFromOtherEvent(t *testing.T) {
	tt := generalAdmission()
	tt.EventID = 99
	svc, store, _ := newService(t, config.DiscountValidationLenient, tt, nil)
	_, err := svc.Book(context.Background(), baseRequest())
	assert.ErrorIs(t, err, repository.ErrTicketTypeNotFound)
	assert.Empty(t, store.created)
}

func TestBookInvalidQuantity(t *testing.T) {
	svc, store, _ := newService(t, config.DiscountValidationLenient, generalAdmission(), nil)
	req := baseRequest()
	req.Quantity = 0
	_, err := svc.Book(context.Background(), req)
	assert.Error(t, err)
	assert.Empty(t, store.created)
}

func TestBookUnknownCodeLenient(t *testing.T) {
	// A code that does not exist for the event degrades to "no
	// discount" rather than failing the booking.
	svc, store, _ := newService(t, config.DiscountValidationLenient, generalAdmission(), nil)
	req := baseRequest()
	req.DiscountCode = "NOSUCH"

	res, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Pricing.DiscountAmount)
	assert.Nil(t, res.Booking.DiscountCode)
	assert.Nil(t, store.created[0].codeID)
}

func TestBookUnknownCodeStrict(t *testing.T) {
	svc, store, _ := newService(t, config.DiscountValidationStrict, generalAdmission(), nil)
	req := baseRequest()
	req.DiscountCode = "NOSUCH"

	_, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrDiscountCodeInvalid)
	assert.Empty(t, store.created)
}

func TestBookValidCodeApplied(t *testing.T) {
	codes := map[string]*model.DiscountCode{
		"SAVE10": {ID: 5, EventID: 3, Code: "SAVE10", Value: 10, IsActive: true},
	}
	svc, store, _ := newService(t, config.DiscountValidationStrict, generalAdmission(), codes)
	req := baseRequest()
	req.DiscountCode = "SAVE10"

	res, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.Pricing.DiscountAmount)
	assert.Equal(t, 32.4, res.Pricing.TaxAmount)
	assert.Equal(t, 212.4, res.Pricing.TotalAmount)
	require.NotNil(t, res.Booking.DiscountCode)
	assert.Equal(t, "SAVE10", *res.Booking.DiscountCode)
	require.NotNil(t, store.created[0].codeID)
	assert.Equal(t, uint64(5), *store.created[0].codeID)
}

func TestBookExhaustedCodeByMode(t *testing.T) {
	limit := 3
	codes := map[string]*model.DiscountCode{
		"DONE": {ID: 6, EventID: 3, Code: "DONE", Value: 25, IsActive: true, UsageCount: 3, UsageLimit: &limit},
	}

	strict, store, _ := newService(t, config.DiscountValidationStrict, generalAdmission(), codes)
	req := baseRequest()
	req.DiscountCode = "DONE"
	_, err := strict.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrDiscountCodeInvalid)
	assert.Empty(t, store.created)

	lenient, store2, _ := newService(t, config.DiscountValidationLenient, generalAdmission(), codes)
	res, err := lenient.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Pricing.DiscountAmount)
	assert.Nil(t, store2.created[0].codeID)
}

func TestBookSoldOutPropagates(t *testing.T) {
	svc, store, pub := newService(t, config.DiscountValidationLenient, generalAdmission(), nil)
	store.failWith = repository.ErrSoldOut

	_, err := svc.Book(context.Background(), baseRequest())
	assert.ErrorIs(t, err, repository.ErrSoldOut)
	assert.Empty(t, pub.events)
}

func TestBookTwiceCreatesDistinctBookings(t *testing.T) {
	svc, store, _ := newService(t, config.DiscountValidationLenient, generalAdmission(), nil)
	req := baseRequest()

	first, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Booking.Reference, second.Booking.Reference)
	assert.NotEqual(t, first.Booking.ID, second.Booking.ID)
	assert.Len(t, store.created, 2)
	// Identical inputs still price identically.
	assert.Equal(t, first.Pricing, second.Pricing)
}
