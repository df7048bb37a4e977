package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	storagebooking "github.com/m0rozko/DMP-BookingService/internal/infra/storage/booking"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
	"github.com/m0rozko/DMP-BookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error

	byCustomer  []*domain.Booking
	byPerformer []*domain.Booking
	confirmed   []*domain.Booking
	listErr     error

	updateErrs   map[int64]error
	updateCalls  int
	cancelErr    error
	cancelReason string
	cancelFrom   []domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookingRepo) GetByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byCustomer, nil
}

func (f *fakeBookingRepo) GetByPerformer(ctx context.Context, filter domain.PerformerBookingsFilter) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byPerformer, nil
}

func (f *fakeBookingRepo) ListConfirmedBefore(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.confirmed, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	f.updateCalls++
	if err, ok := f.updateErrs[id]; ok {
		return err
	}
	return nil
}

func (f *fakeBookingRepo) CancelWithReason(ctx context.Context, id int64, from []domain.BookingStatus, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelFrom = from
	f.cancelReason = reason
	return nil
}

type fakeProposalRepo struct {
	proposal  *domain.BookingProposal
	getErr    error
	byBooking []*domain.BookingProposal

	created   []*domain.BookingProposal
	createErr error
	updateErr error
}

func (f *fakeProposalRepo) Create(ctx context.Context, p *domain.BookingProposal) (*domain.BookingProposal, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeProposalRepo) GetByID(ctx context.Context, id int64) (*domain.BookingProposal, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.proposal, nil
}

func (f *fakeProposalRepo) GetByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingProposal, error) {
	return f.byBooking, nil
}

func (f *fakeProposalRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.ProposalStatus) error {
	return f.updateErr
}

type fakePublisher struct {
	events []domain.Event
}

func (f *fakePublisher) Publish(ctx context.Context, e domain.Event) {
	f.events = append(f.events, e)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          10,
		CustomerID:  1,
		PerformerID: 2,
		EventDate:   time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   "12:00",
		Format:      domain.FormatHome,

		PerformerPrice:   7000,
		PriceTotal:       9800,
		PrepaymentAmount: 2800,
		CommissionRate:   40,

		Status:        status,
		PaymentStatus: domain.PaymentNotPaid,
	}
}

func newTestService(bookingRepo *fakeBookingRepo, proposalRepo *fakeProposalRepo, events *fakePublisher) *Service {
	return New(bookingRepo, proposalRepo, events, nopLogger{})
}

func TestService_GetByID_AccessibleByParties(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newTestService(repo, &fakeProposalRepo{}, &fakePublisher{})

	for _, userID := range []int64{1, 2} {
		resp, err := svc.GetByID(context.Background(), 10, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.ID)
	}

	_, err := svc.GetByID(context.Background(), 10, 777)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: storagebooking.ErrBookingNotFound}
	svc := newTestService(repo, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.GetByID(context.Background(), 99, 1)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetCustomerBookings_InvalidStatusFilter(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 1,
		Status:     ptr.Ptr("approved"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Accept_ConfirmsPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	resp, err := svc.Accept(context.Background(), 10, &models.AcceptBookingRequest{PerformerID: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventBookingAccepted, events.events[0].Type)
}

func TestService_Accept_OnlyPerformer(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newTestService(repo, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.Accept(context.Background(), 10, &models.AcceptBookingRequest{PerformerID: 1})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Accept_AlreadyConfirmed(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	_, err := svc.Accept(context.Background(), 10, &models.AcceptBookingRequest{PerformerID: 2})

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Empty(t, events.events)
}

// Гонка: заявка изменена между чтением и CAS-переходом
func TestService_Accept_ConcurrentUpdate(t *testing.T) {
	repo := &fakeBookingRepo{
		booking:    testBooking(domain.StatusPending),
		updateErrs: map[int64]error{10: storagebooking.ErrStatusConflict},
	}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	_, err := svc.Accept(context.Background(), 10, &models.AcceptBookingRequest{PerformerID: 2})

	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.Empty(t, events.events)
}

func TestService_Reject_RequiresReason(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusPending)}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.Reject(context.Background(), 10, &models.RejectBookingRequest{PerformerID: 2, Reason: ""})
	assert.ErrorIs(t, err, ErrReasonRequired)

	// Причина из одних пробелов не считается указанной
	_, err = svc.Reject(context.Background(), 10, &models.RejectBookingRequest{PerformerID: 2, Reason: "   \t "})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestService_Reject_TrimsReason(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	_, err := svc.Reject(context.Background(), 10, &models.RejectBookingRequest{
		PerformerID: 2,
		Reason:      "  занят в этот день  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "занят в этот день", repo.cancelReason)
	assert.Equal(t, []domain.BookingStatus{domain.StatusPending}, repo.cancelFrom)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventBookingRejected, events.events[0].Type)
	assert.Equal(t, "занят в этот день", events.events[0].Reason)
}

func TestService_Reject_ReasonTooLong(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusPending)}, &fakeProposalRepo{}, &fakePublisher{})

	long := make([]rune, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'я'
	}

	_, err := svc.Reject(context.Background(), 10, &models.RejectBookingRequest{PerformerID: 2, Reason: string(long)})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel_ByEitherParty(t *testing.T) {
	for _, userID := range []int64{1, 2} {
		repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
		events := &fakePublisher{}
		svc := newTestService(repo, &fakeProposalRepo{}, events)

		_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{UserID: userID, Reason: "планы изменились"})
		require.NoError(t, err)

		require.Len(t, events.events, 1)
		assert.Equal(t, domain.EventBookingCancelled, events.events[0].Type)
	}
}

func TestService_Cancel_ByStranger(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusPending)}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{UserID: 777, Reason: "причина"})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel_CompletedBooking(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusCompleted)}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{UserID: 1, Reason: "причина"})

	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestService_Complete_ByPerformer(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	_, err := svc.Complete(context.Background(), 10, 2)
	require.NoError(t, err)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventBookingCompleted, events.events[0].Type)
}

func TestService_Complete_PendingBooking(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusPending)}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.Complete(context.Background(), 10, 2)

	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestService_CompleteOverdue_CompletesAll(t *testing.T) {
	first := testBooking(domain.StatusConfirmed)
	second := testBooking(domain.StatusConfirmed)
	second.ID = 11

	repo := &fakeBookingRepo{confirmed: []*domain.Booking{first, second}}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	completed, err := svc.CompleteOverdue(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, completed)
	assert.Len(t, events.events, 2)
}

// Конфликт по отдельной заявке не прерывает проход планировщика
func TestService_CompleteOverdue_SkipsConflicts(t *testing.T) {
	first := testBooking(domain.StatusConfirmed)
	second := testBooking(domain.StatusConfirmed)
	second.ID = 11

	repo := &fakeBookingRepo{
		confirmed:  []*domain.Booking{first, second},
		updateErrs: map[int64]error{10: storagebooking.ErrStatusConflict},
	}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	completed, err := svc.CompleteOverdue(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, completed)
	require.Len(t, events.events, 1)
	assert.Equal(t, int64(11), events.events[0].BookingID)
}

func TestService_MarkNoShow_OnlyCustomer(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}
	events := &fakePublisher{}
	svc := newTestService(repo, &fakeProposalRepo{}, events)

	_, err := svc.MarkNoShow(context.Background(), 10, &models.MarkNoShowRequest{ReportedBy: 2})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.MarkNoShow(context.Background(), 10, &models.MarkNoShowRequest{ReportedBy: 1})
	require.NoError(t, err)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventBookingNoShow, events.events[0].Type)
}

func TestService_CreateProposals_PublishesSingleEvent(t *testing.T) {
	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	proposalRepo := &fakeProposalRepo{}
	events := &fakePublisher{}
	svc := newTestService(repo, proposalRepo, events)

	resp, err := svc.CreateProposals(context.Background(), 10, &models.CreateProposalsRequest{
		PerformerID: 2,
		Proposals: []models.ProposalInput{
			{Date: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC), Time: "18:00"},
			{Date: time.Date(2026, 12, 22, 0, 0, 0, 0, time.UTC), Time: "11:00", Price: ptr.Ptr(int64(8500))},
		},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Proposals, 2)
	assert.Len(t, proposalRepo.created, 2)

	// Одно событие на весь пакет предложений
	require.Len(t, events.events, 1)
	assert.Equal(t, domain.EventProposalsOffered, events.events[0].Type)
	assert.Equal(t, 2, events.events[0].ProposalCount)

	// Выплата исполнителю: цена предложения либо базовая цена заявки
	assert.Equal(t, int64(7000), resp.Proposals[0].PerformerPayment)
	assert.Equal(t, int64(8500), resp.Proposals[1].PerformerPayment)
}

func TestService_CreateProposals_Validation(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusPending)}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.CreateProposals(context.Background(), 10, &models.CreateProposalsRequest{PerformerID: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProposals(context.Background(), 10, &models.CreateProposalsRequest{
		PerformerID: 2,
		Proposals:   []models.ProposalInput{{Date: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC), Time: "25:99"}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProposals(context.Background(), 10, &models.CreateProposalsRequest{
		PerformerID: 2,
		Proposals: []models.ProposalInput{
			{Date: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC), Time: "18:00", Price: ptr.Ptr(int64(-1))},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CreateProposals_NotAllowedOnConfirmed(t *testing.T) {
	svc := newTestService(&fakeBookingRepo{booking: testBooking(domain.StatusConfirmed)}, &fakeProposalRepo{}, &fakePublisher{})

	_, err := svc.CreateProposals(context.Background(), 10, &models.CreateProposalsRequest{
		PerformerID: 2,
		Proposals:   []models.ProposalInput{{Date: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC), Time: "18:00"}},
	})

	assert.ErrorIs(t, err, ErrProposalsNotAllowed)
}

func TestService_RejectProposal_ByCustomer(t *testing.T) {
	proposal := &domain.BookingProposal{
		ID:           5,
		BookingID:    10,
		ProposedDate: time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC),
		ProposedTime: "18:00",
		Status:       domain.ProposalPending,
	}

	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newTestService(repo, &fakeProposalRepo{proposal: proposal}, &fakePublisher{})

	resp, err := svc.RejectProposal(context.Background(), 5, &models.RejectProposalRequest{CustomerID: 1})
	require.NoError(t, err)

	assert.Equal(t, string(domain.ProposalRejected), resp.Status)
}

func TestService_RejectProposal_AccessAndStatus(t *testing.T) {
	proposal := &domain.BookingProposal{ID: 5, BookingID: 10, Status: domain.ProposalPending}

	repo := &fakeBookingRepo{booking: testBooking(domain.StatusPending)}
	svc := newTestService(repo, &fakeProposalRepo{proposal: proposal}, &fakePublisher{})

	// Решение принимает только клиент заявки
	_, err := svc.RejectProposal(context.Background(), 5, &models.RejectProposalRequest{CustomerID: 2})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Решение по предложению уже принято
	proposal.Status = domain.ProposalAccepted
	_, err = svc.RejectProposal(context.Background(), 5, &models.RejectProposalRequest{CustomerID: 1})
	assert.ErrorIs(t, err, ErrStatusConflict)
}
