package accept_proposal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	storagebooking "github.com/m0rozko/DMP-BookingService/internal/infra/storage/booking"
	storageproposal "github.com/m0rozko/DMP-BookingService/internal/infra/storage/proposal"
	"github.com/m0rozko/DMP-BookingService/pkg/ptr"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error

	applyErr         error
	applied          bool
	appliedPerformer int64
	appliedTotal     int64
	appliedPrepay    int64
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) ApplyProposal(
	ctx context.Context,
	id int64,
	eventDate time.Time,
	startTime types.TimeString,
	performerPrice, priceTotal, prepaymentAmount int64,
) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = true
	f.appliedPerformer = performerPrice
	f.appliedTotal = priceTotal
	f.appliedPrepay = prepaymentAmount
	return nil
}

type fakeProposalRepo struct {
	proposal *domain.BookingProposal
	getErr   error

	updateErr        error
	acceptedID       int64
	siblingsRejected bool
}

func (f *fakeProposalRepo) GetByID(ctx context.Context, id int64) (*domain.BookingProposal, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.proposal, nil
}

func (f *fakeProposalRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.ProposalStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.acceptedID = id
	return nil
}

func (f *fakeProposalRepo) RejectSiblings(ctx context.Context, bookingID, acceptedID int64) error {
	f.siblingsRejected = true
	return nil
}

type fakePublisher struct {
	events []domain.Event
}

func (f *fakePublisher) Publish(ctx context.Context, e domain.Event) {
	f.events = append(f.events, e)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          10,
		CustomerID:  1,
		PerformerID: 2,
		EventDate:   time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   "12:00",

		PerformerPrice:   7000,
		PriceTotal:       9800,
		PrepaymentAmount: 2800,
		CommissionRate:   40,

		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentNotPaid,
	}
}

func pendingProposal() *domain.BookingProposal {
	return &domain.BookingProposal{
		ID:           5,
		BookingID:    10,
		ProposedDate: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC),
		ProposedTime: "18:00",
		Status:       domain.ProposalPending,
	}
}

func newTestUseCase(bookingRepo *fakeBookingRepo, proposalRepo *fakeProposalRepo, events *fakePublisher) *UseCase {
	return NewUseCase(bookingRepo, proposalRepo, events, fakeTxManager{}, nopLogger{})
}

func TestUseCase_Execute_AppliesProposal(t *testing.T) {
	proposal := pendingProposal()
	proposal.ProposedPrice = ptr.Ptr(int64(8500))

	bookingRepo := &fakeBookingRepo{booking: pendingBooking()}
	proposalRepo := &fakeProposalRepo{proposal: proposal}
	events := &fakePublisher{}
	uc := newTestUseCase(bookingRepo, proposalRepo, events)

	resp, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})
	require.NoError(t, err)

	// Суммы пересчитаны по ставке из снимка заявки
	assert.Equal(t, int64(8500), resp.PerformerPrice)
	assert.Equal(t, int64(11900), resp.PriceTotal)
	assert.Equal(t, int64(3400), resp.PrepaymentAmount)
	assert.Equal(t, 40, resp.CommissionRate)

	assert.Equal(t, "2026-12-21", resp.EventDate)
	assert.Equal(t, "18:00", resp.StartTime)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	assert.Equal(t, int64(5), proposalRepo.acceptedID)
	assert.True(t, proposalRepo.siblingsRejected)
	assert.True(t, bookingRepo.applied)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventProposalAccepted, events.events[0].Type)
	assert.Equal(t, int64(10), events.events[0].BookingID)
}

// Ставка берётся из снимка заявки, а не из текущих настроек платформы:
// заявка создана при 30%, суммы пересчитываются по тем же 30%
func TestUseCase_Execute_UsesSnapshotCommissionRate(t *testing.T) {
	booking := pendingBooking()
	booking.CommissionRate = 30

	proposal := pendingProposal()
	proposal.ProposedPrice = ptr.Ptr(int64(10000))

	bookingRepo := &fakeBookingRepo{booking: booking}
	events := &fakePublisher{}
	uc := newTestUseCase(bookingRepo, &fakeProposalRepo{proposal: proposal}, events)

	resp, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(13000), resp.PriceTotal)
	assert.Equal(t, int64(3000), resp.PrepaymentAmount)
	assert.Equal(t, 30, resp.CommissionRate)
}

// Предложение без цены: действует базовая цена заявки
func TestUseCase_Execute_NilProposedPriceKeepsBookingPrice(t *testing.T) {
	bookingRepo := &fakeBookingRepo{booking: pendingBooking()}
	uc := newTestUseCase(bookingRepo, &fakeProposalRepo{proposal: pendingProposal()}, &fakePublisher{})

	resp, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(7000), resp.PerformerPrice)
	assert.Equal(t, int64(9800), resp.PriceTotal)
	assert.Equal(t, int64(2800), resp.PrepaymentAmount)
}

func TestUseCase_Execute_ProposalNotFound(t *testing.T) {
	proposalRepo := &fakeProposalRepo{getErr: storageproposal.ErrProposalNotFound}
	uc := newTestUseCase(&fakeBookingRepo{}, proposalRepo, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{ProposalID: 99, CustomerID: 1})

	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestUseCase_Execute_ProposalAlreadyResolved(t *testing.T) {
	proposal := pendingProposal()
	proposal.Status = domain.ProposalRejected

	events := &fakePublisher{}
	uc := newTestUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeProposalRepo{proposal: proposal}, events)

	_, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})

	assert.ErrorIs(t, err, ErrProposalNotPending)
	assert.Empty(t, events.events)
}

func TestUseCase_Execute_AccessDenied(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{booking: pendingBooking()}, &fakeProposalRepo{proposal: pendingProposal()}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 777})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUseCase_Execute_BookingNoLongerPending(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed

	uc := newTestUseCase(&fakeBookingRepo{booking: booking}, &fakeProposalRepo{proposal: pendingProposal()}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})

	assert.ErrorIs(t, err, ErrBookingNotPending)
}

func TestUseCase_Execute_BookingNotFound(t *testing.T) {
	bookingRepo := &fakeBookingRepo{getErr: storagebooking.ErrBookingNotFound}
	uc := newTestUseCase(bookingRepo, &fakeProposalRepo{proposal: pendingProposal()}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// Гонка: статус заявки изменился между чтением и применением
func TestUseCase_Execute_ApplyStatusConflict(t *testing.T) {
	bookingRepo := &fakeBookingRepo{
		booking:  pendingBooking(),
		applyErr: storagebooking.ErrStatusConflict,
	}
	events := &fakePublisher{}
	uc := newTestUseCase(bookingRepo, &fakeProposalRepo{proposal: pendingProposal()}, events)

	_, err := uc.Execute(context.Background(), &Request{ProposalID: 5, CustomerID: 1})

	assert.ErrorIs(t, err, ErrBookingNotPending)
	assert.Empty(t, events.events)
}
