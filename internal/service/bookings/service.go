package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	storagebooking "github.com/m0rozko/DMP-BookingService/internal/infra/storage/booking"
	storageproposal "github.com/m0rozko/DMP-BookingService/internal/infra/storage/proposal"
	"github.com/m0rozko/DMP-BookingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла заявок
// Простые переходы статусов без межсервисных транзакций живут здесь;
// сложные операции (создание заявки, принятие предложения) - в usecase
type Service struct {
	bookingRepo  BookingRepository
	proposalRepo ProposalRepository
	events       EventPublisher
	logger       Logger
}

// New создает новый экземпляр сервиса заявок
func New(bookingRepo BookingRepository, proposalRepo ProposalRepository, events EventPublisher, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		proposalRepo: proposalRepo,
		events:       events,
		logger:       logger,
	}
}

// GetByID возвращает заявку по ID
// Доступ имеют только стороны заявки
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID && booking.PerformerID != userID {
		s.logger.Warn("Service.GetByID - access denied: booking=%d, user=%d", bookingID, userID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings возвращает заявки клиента
// По умолчанию только активные; IncludeInactive добавляет историю
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("Service.GetCustomerBookings - invalid status filter: customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, filter)
	if err != nil {
		s.logger.Error("Service.GetCustomerBookings - repository error: customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetPerformerBookings возвращает заявки исполнителя
func (s *Service) GetPerformerBookings(ctx context.Context, req *models.GetPerformerBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("Service.GetPerformerBookings - invalid status filter: performer=%d: %v", req.PerformerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByPerformer(ctx, filter)
	if err != nil {
		s.logger.Error("Service.GetPerformerBookings - repository error: performer=%d: %v", req.PerformerID, err)
		return nil, fmt.Errorf("%w: GetPerformerBookings: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Accept исполнитель принимает заявку: pending -> confirmed
func (s *Service) Accept(ctx context.Context, bookingID int64, req *models.AcceptBookingRequest) (*models.BookingResponse, error) {
	// 1. Загружаем заявку и проверяем права
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PerformerID != req.PerformerID {
		s.logger.Warn("Service.Accept - access denied: booking=%d, performer=%d", bookingID, req.PerformerID)
		return nil, ErrAccessDenied
	}

	// 2. Проверяем допустимость перехода
	if !booking.CanBeAccepted() {
		s.logger.Warn("Service.Accept - invalid status: booking=%d, status=%s", bookingID, booking.Status)
		return nil, ErrStatusConflict
	}

	// 3. Переводим статус со сверкой ожидаемого значения
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		return nil, s.mapBookingError("Accept", bookingID, err)
	}

	// 4. Публикуем событие и возвращаем свежее состояние
	s.events.Publish(ctx, s.eventFromBooking(domain.EventBookingAccepted, booking, ""))

	s.logger.Info("Service.Accept - booking accepted: booking=%d, performer=%d", bookingID, req.PerformerID)

	return s.reload(ctx, bookingID)
}

// Reject исполнитель отклоняет заявку с обязательной причиной:
// pending -> cancelled
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	// 1. Причина обязательна
	reason, err := s.requireReason(req.Reason)
	if err != nil {
		return nil, err
	}

	// 2. Загружаем заявку и проверяем права
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PerformerID != req.PerformerID {
		s.logger.Warn("Service.Reject - access denied: booking=%d, performer=%d", bookingID, req.PerformerID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем допустимость перехода
	if !booking.CanBeRejected() {
		s.logger.Warn("Service.Reject - invalid status: booking=%d, status=%s", bookingID, booking.Status)
		return nil, ErrStatusConflict
	}

	// 4. Отменяем с фиксацией причины
	if err := s.bookingRepo.CancelWithReason(ctx, bookingID, []domain.BookingStatus{domain.StatusPending}, reason); err != nil {
		return nil, s.mapBookingError("Reject", bookingID, err)
	}

	// 5. Публикуем событие
	s.events.Publish(ctx, s.eventFromBooking(domain.EventBookingRejected, booking, reason))

	s.logger.Info("Service.Reject - booking rejected: booking=%d, performer=%d", bookingID, req.PerformerID)

	return s.reload(ctx, bookingID)
}

// Cancel отмена заявки любой из сторон с обязательной причиной:
// pending|confirmed -> cancelled
// Возврат предоплаты по уже оплаченной заявке инициирует платёжный шлюз,
// здесь меняется только статус заявки
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	// 1. Причина обязательна
	reason, err := s.requireReason(req.Reason)
	if err != nil {
		return nil, err
	}

	// 2. Загружаем заявку и проверяем права
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != req.UserID && booking.PerformerID != req.UserID {
		s.logger.Warn("Service.Cancel - access denied: booking=%d, user=%d", bookingID, req.UserID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем допустимость перехода
	if !booking.CanBeCancelled() {
		s.logger.Warn("Service.Cancel - invalid status: booking=%d, status=%s", bookingID, booking.Status)
		return nil, ErrStatusConflict
	}

	// 4. Отменяем из текущего статуса
	from := []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}
	if err := s.bookingRepo.CancelWithReason(ctx, bookingID, from, reason); err != nil {
		return nil, s.mapBookingError("Cancel", bookingID, err)
	}

	// 5. Публикуем событие
	s.events.Publish(ctx, s.eventFromBooking(domain.EventBookingCancelled, booking, reason))

	s.logger.Info("Service.Cancel - booking cancelled: booking=%d, user=%d", bookingID, req.UserID)

	return s.reload(ctx, bookingID)
}

// Complete исполнитель отмечает выезд состоявшимся: confirmed -> completed
func (s *Service) Complete(ctx context.Context, bookingID, performerID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PerformerID != performerID {
		s.logger.Warn("Service.Complete - access denied: booking=%d, performer=%d", bookingID, performerID)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeCompleted() {
		s.logger.Warn("Service.Complete - invalid status: booking=%d, status=%s", bookingID, booking.Status)
		return nil, ErrStatusConflict
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed, domain.StatusCompleted); err != nil {
		return nil, s.mapBookingError("Complete", bookingID, err)
	}

	s.events.Publish(ctx, s.eventFromBooking(domain.EventBookingCompleted, booking, ""))

	s.logger.Info("Service.Complete - booking completed: booking=%d, performer=%d", bookingID, performerID)

	return s.reload(ctx, bookingID)
}

// CompleteOverdue закрывает подтверждённые заявки с прошедшей датой выезда
// Вызывается планировщиком; возвращает количество закрытых заявок
// Конфликт статуса по отдельной заявке не прерывает проход: значит,
// стороны успели изменить её сами
func (s *Service) CompleteOverdue(ctx context.Context, before time.Time) (int, error) {
	bookings, err := s.bookingRepo.ListConfirmedBefore(ctx, before)
	if err != nil {
		s.logger.Error("Service.CompleteOverdue - repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteOverdue: %v", ErrInternal, err)
	}

	completed := 0
	for _, booking := range bookings {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed, domain.StatusCompleted); err != nil {
			if errors.Is(err, storagebooking.ErrStatusConflict) || errors.Is(err, storagebooking.ErrBookingNotFound) {
				s.logger.Warn("Service.CompleteOverdue - booking changed concurrently, skipping: booking=%d", booking.ID)
				continue
			}
			s.logger.Error("Service.CompleteOverdue - failed to complete: booking=%d: %v", booking.ID, err)
			return completed, fmt.Errorf("%w: CompleteOverdue: %v", ErrInternal, err)
		}

		s.events.Publish(ctx, s.eventFromBooking(domain.EventBookingCompleted, booking, ""))
		completed++
	}

	if completed > 0 {
		s.logger.Info("Service.CompleteOverdue - auto-completed %d bookings before %s",
			completed, before.Format(domain.DateFormat))
	}

	return completed, nil
}

// MarkNoShow клиент фиксирует неявку исполнителя: confirmed -> no_show
func (s *Service) MarkNoShow(ctx context.Context, bookingID int64, req *models.MarkNoShowRequest) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != req.ReportedBy {
		s.logger.Warn("Service.MarkNoShow - access denied: booking=%d, user=%d", bookingID, req.ReportedBy)
		return nil, ErrAccessDenied
	}

	if !booking.CanBeMarkedNoShow() {
		s.logger.Warn("Service.MarkNoShow - invalid status: booking=%d, status=%s", bookingID, booking.Status)
		return nil, ErrStatusConflict
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusConfirmed, domain.StatusNoShow); err != nil {
		return nil, s.mapBookingError("MarkNoShow", bookingID, err)
	}

	s.events.Publish(ctx, s.eventFromBooking(domain.EventBookingNoShow, booking, ""))

	s.logger.Info("Service.MarkNoShow - no-show recorded: booking=%d, customer=%d", bookingID, req.ReportedBy)

	return s.reload(ctx, bookingID)
}

// CreateProposals исполнитель создает встречные предложения по заявке
// Заявка остаётся в pending: решение за клиентом
func (s *Service) CreateProposals(ctx context.Context, bookingID int64, req *models.CreateProposalsRequest) (*models.ProposalListResponse, error) {
	// 1. Валидация входных данных
	if len(req.Proposals) == 0 {
		return nil, fmt.Errorf("%w: at least one proposal is required", ErrInvalidInput)
	}

	for i, p := range req.Proposals {
		if p.Date.IsZero() {
			return nil, fmt.Errorf("%w: proposal %d: date is required", ErrInvalidInput, i+1)
		}
		if err := p.Time.Validate(); err != nil {
			return nil, fmt.Errorf("%w: proposal %d: %v", ErrInvalidInput, i+1, err)
		}
		if p.Price != nil && *p.Price <= 0 {
			return nil, fmt.Errorf("%w: proposal %d: price must be positive", ErrInvalidInput, i+1)
		}
	}

	// 2. Загружаем заявку и проверяем права
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PerformerID != req.PerformerID {
		s.logger.Warn("Service.CreateProposals - access denied: booking=%d, performer=%d", bookingID, req.PerformerID)
		return nil, ErrAccessDenied
	}

	// 3. Предложения принимаются только по ожидающей заявке
	if !booking.AllowsProposals() {
		s.logger.Warn("Service.CreateProposals - proposals not allowed: booking=%d, status=%s", bookingID, booking.Status)
		return nil, ErrProposalsNotAllowed
	}

	// 4. Сохраняем предложения
	created := make([]*domain.BookingProposal, 0, len(req.Proposals))
	for _, p := range req.Proposals {
		proposal, err := s.proposalRepo.Create(ctx, &domain.BookingProposal{
			BookingID:     bookingID,
			ProposedDate:  p.Date,
			ProposedTime:  p.Time,
			ProposedPrice: p.Price,
			Status:        domain.ProposalPending,
		})
		if err != nil {
			s.logger.Error("Service.CreateProposals - failed to create proposal: booking=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: CreateProposals: %v", ErrInternal, err)
		}
		created = append(created, proposal)
	}

	// 5. Публикуем одно событие на весь пакет предложений
	event := s.eventFromBooking(domain.EventProposalsOffered, booking, "")
	event.ProposalCount = len(created)
	s.events.Publish(ctx, event)

	s.logger.Info("Service.CreateProposals - created %d proposals: booking=%d, performer=%d",
		len(created), bookingID, req.PerformerID)

	return models.FromDomainProposalList(created, booking.PerformerPrice), nil
}

// GetProposals возвращает предложения по заявке
// Доступ имеют только стороны заявки
func (s *Service) GetProposals(ctx context.Context, bookingID, userID int64) (*models.ProposalListResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID && booking.PerformerID != userID {
		s.logger.Warn("Service.GetProposals - access denied: booking=%d, user=%d", bookingID, userID)
		return nil, ErrAccessDenied
	}

	proposals, err := s.proposalRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("Service.GetProposals - repository error: booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetProposals: %v", ErrInternal, err)
	}

	return models.FromDomainProposalList(proposals, booking.PerformerPrice), nil
}

// RejectProposal клиент отклоняет встречное предложение
// Заявка остаётся в pending, остальные предложения не затрагиваются
func (s *Service) RejectProposal(ctx context.Context, proposalID int64, req *models.RejectProposalRequest) (*models.ProposalResponse, error) {
	// 1. Загружаем предложение
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, storageproposal.ErrProposalNotFound) {
			return nil, ErrProposalNotFound
		}
		s.logger.Error("Service.RejectProposal - repository error: proposal=%d: %v", proposalID, err)
		return nil, fmt.Errorf("%w: RejectProposal: %v", ErrInternal, err)
	}

	// 2. Решение по предложению принимает только клиент заявки
	booking, err := s.getBooking(ctx, proposal.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != req.CustomerID {
		s.logger.Warn("Service.RejectProposal - access denied: proposal=%d, user=%d", proposalID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	// 3. Отклонить можно только ожидающее предложение
	if !proposal.IsPending() {
		s.logger.Warn("Service.RejectProposal - invalid status: proposal=%d, status=%s", proposalID, proposal.Status)
		return nil, ErrStatusConflict
	}

	// 4. Переводим статус со сверкой ожидаемого значения
	if err := s.proposalRepo.UpdateStatus(ctx, proposalID, domain.ProposalPending, domain.ProposalRejected); err != nil {
		if errors.Is(err, storageproposal.ErrStatusConflict) {
			return nil, ErrStatusConflict
		}
		if errors.Is(err, storageproposal.ErrProposalNotFound) {
			return nil, ErrProposalNotFound
		}
		s.logger.Error("Service.RejectProposal - failed to update status: proposal=%d: %v", proposalID, err)
		return nil, fmt.Errorf("%w: RejectProposal: %v", ErrInternal, err)
	}

	s.logger.Info("Service.RejectProposal - proposal rejected: proposal=%d, booking=%d", proposalID, proposal.BookingID)

	proposal.Status = domain.ProposalRejected
	return models.FromDomainProposal(proposal, booking.PerformerPrice), nil
}

// getBooking загружает заявку, транслируя ошибки хранилища в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storagebooking.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Service.getBooking - repository error: booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: getBooking: %v", ErrInternal, err)
	}
	return booking, nil
}

// reload возвращает свежее состояние заявки после успешного перехода
func (s *Service) reload(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// requireReason проверяет обязательную причину отклонения/отмены
func (s *Service) requireReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "", ErrReasonRequired
	}
	if len([]rune(trimmed)) > domain.MaxCancellationReasonLength {
		return "", fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return trimmed, nil
}

// mapBookingError транслирует ошибки CAS-переходов репозитория
func (s *Service) mapBookingError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, storagebooking.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, storagebooking.ErrStatusConflict):
		s.logger.Warn("Service.%s - concurrent update: booking=%d", op, bookingID)
		return ErrStatusConflict
	default:
		s.logger.Error("Service.%s - repository error: booking=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}

// eventFromBooking собирает доменное событие из состояния заявки
func (s *Service) eventFromBooking(eventType domain.EventType, b *domain.Booking, reason string) domain.Event {
	return domain.Event{
		Type:        eventType,
		BookingID:   b.ID,
		CustomerID:  b.CustomerID,
		PerformerID: b.PerformerID,
		EventDate:   b.EventDate,
		StartTime:   b.StartTime,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	}
}
