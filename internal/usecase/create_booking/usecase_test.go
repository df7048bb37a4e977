package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/integrations/profileservice"
)

type fakeBookingRepo struct {
	created   *domain.Booking
	createErr error
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.ID = 10
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.created = b
	return b, nil
}

type fakeProfileClient struct {
	customer    *profileservice.Customer
	customerErr error

	performer    *profileservice.Performer
	performerErr error
}

func (f *fakeProfileClient) GetCustomer(ctx context.Context, customerID int64) (*profileservice.Customer, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	return f.customer, nil
}

func (f *fakeProfileClient) GetPerformer(ctx context.Context, performerID int64) (*profileservice.Performer, error) {
	if f.performerErr != nil {
		return nil, f.performerErr
	}
	return f.performer, nil
}

type fakePricing struct {
	rate int
}

func (f *fakePricing) Snapshot(ctx context.Context, performerPrice int64) domain.PricingSnapshot {
	prepayment := performerPrice * int64(f.rate) / 100
	return domain.PricingSnapshot{
		PerformerPrice:   performerPrice,
		CustomerPrice:    performerPrice + prepayment,
		PrepaymentAmount: prepayment,
		CommissionRate:   f.rate,
	}
}

type fakePublisher struct {
	events []domain.Event
}

func (f *fakePublisher) Publish(ctx context.Context, e domain.Event) {
	f.events = append(f.events, e)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func activePerformer() *profileservice.Performer {
	return &profileservice.Performer{
		ID:        2,
		Name:      "Дед Мороз Иван",
		District:  "Центральный",
		BasePrice: 7000,
		IsActive:  true,
	}
}

func validRequest() *Request {
	return &Request{
		CustomerID:    1,
		PerformerID:   2,
		EventDate:     time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		StartTime:     "18:00",
		Address:       "ул. Ленина, д. 1, кв. 5",
		Format:        domain.FormatHome,
		ChildrenCount: 2,
	}
}

func newTestUseCase(repo *fakeBookingRepo, profiles *fakeProfileClient, events *fakePublisher) *UseCase {
	uc := NewUseCase(repo, profiles, &fakePricing{rate: 40}, events, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)}
	return uc
}

func TestUseCase_Execute_CreatesPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: activePerformer()}
	events := &fakePublisher{}
	uc := newTestUseCase(repo, profiles, events)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.PaymentNotPaid), resp.PaymentStatus)

	// Цена взята из анкеты исполнителя, снимок зафиксирован
	assert.Equal(t, int64(7000), resp.PerformerPrice)
	assert.Equal(t, int64(9800), resp.PriceTotal)
	assert.Equal(t, int64(2800), resp.PrepaymentAmount)
	assert.Equal(t, 40, resp.CommissionRate)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventBookingCreated, events.events[0].Type)
	assert.Equal(t, int64(10), events.events[0].BookingID)
}

// Район не указан - берётся из анкеты исполнителя
func TestUseCase_Execute_DistrictFallback(t *testing.T) {
	repo := &fakeBookingRepo{}
	profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: activePerformer()}
	uc := newTestUseCase(repo, profiles, &fakePublisher{})

	req := validRequest()
	req.District = "   "

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Центральный", resp.District)
}

func TestUseCase_Execute_EventDateInPast(t *testing.T) {
	profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: activePerformer()}
	uc := newTestUseCase(&fakeBookingRepo{}, profiles, &fakePublisher{})

	req := validRequest()
	req.EventDate = time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

// Выезд в день обращения допустим
func TestUseCase_Execute_EventDateToday(t *testing.T) {
	profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: activePerformer()}
	uc := newTestUseCase(&fakeBookingRepo{}, profiles, &fakePublisher{})

	req := validRequest()
	req.EventDate = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.NoError(t, err)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero customer", func(r *Request) { r.CustomerID = 0 }},
		{"zero performer", func(r *Request) { r.PerformerID = 0 }},
		{"missing date", func(r *Request) { r.EventDate = time.Time{} }},
		{"missing time", func(r *Request) { r.StartTime = "" }},
		{"bad time format", func(r *Request) { r.StartTime = "25:99" }},
		{"empty address", func(r *Request) { r.Address = "   " }},
		{"unknown format", func(r *Request) { r.Format = "stadium" }},
		{"negative children", func(r *Request) { r.ChildrenCount = -1 }},
		{"too many children", func(r *Request) { r.ChildrenCount = domain.MaxChildrenCount + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: activePerformer()}
			uc := newTestUseCase(&fakeBookingRepo{}, profiles, &fakePublisher{})

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUseCase_Execute_CustomerNotFound(t *testing.T) {
	profiles := &fakeProfileClient{customerErr: profileservice.ErrCustomerNotFound}
	uc := newTestUseCase(&fakeBookingRepo{}, profiles, &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestUseCase_Execute_PerformerNotFound(t *testing.T) {
	profiles := &fakeProfileClient{
		customer:     &profileservice.Customer{ID: 1},
		performerErr: profileservice.ErrPerformerNotFound,
	}
	uc := newTestUseCase(&fakeBookingRepo{}, profiles, &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPerformerNotFound)
}

func TestUseCase_Execute_PerformerInactive(t *testing.T) {
	performer := activePerformer()
	performer.IsActive = false

	profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: performer}
	events := &fakePublisher{}
	uc := newTestUseCase(&fakeBookingRepo{}, profiles, events)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrPerformerInactive)
	assert.Empty(t, events.events)
}

func TestUseCase_Execute_PerformerWithoutPrice(t *testing.T) {
	performer := activePerformer()
	performer.BasePrice = 0

	profiles := &fakeProfileClient{customer: &profileservice.Customer{ID: 1}, performer: performer}
	uc := newTestUseCase(&fakeBookingRepo{}, profiles, &fakePublisher{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrInvalidInput)
}
