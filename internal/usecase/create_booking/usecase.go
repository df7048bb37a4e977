package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	profileClient "github.com/m0rozko/DMP-BookingService/internal/integrations/profileservice"
)

// UseCase use case для создания заявки на выезд
//
// Здесь фиксируется ценовой снимок: цена исполнителя берётся из его анкеты,
// комиссия - из действующей ставки платформы. Последующие изменения ставки
// или анкеты на созданную заявку не влияют
type UseCase struct {
	bookingRepo   BookingRepository
	profileClient ProfileServiceClient
	pricing       PricingCalculator
	events        EventPublisher
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	profileClient ProfileServiceClient,
	pricing PricingCalculator,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		profileClient: profileClient,
		pricing:       pricing,
		events:        events,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания заявки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, performer=%d, date=%s, time=%s",
		req.CustomerID, req.PerformerID, req.EventDate.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата выезда не в прошлом
	if err := validateDate(req.EventDate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование клиента
	if _, err := uc.profileClient.GetCustomer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, profileClient.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 4. Получаем анкету исполнителя - источник цены
	performer, err := uc.profileClient.GetPerformer(ctx, req.PerformerID)
	if err != nil {
		if errors.Is(err, profileClient.ErrPerformerNotFound) {
			uc.logger.Warn("CreateBooking: performer id=%d not found", req.PerformerID)
			return nil, ErrPerformerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get performer id=%d: %v", req.PerformerID, err)
		return nil, fmt.Errorf("%w: failed to get performer: %v", ErrInternal, err)
	}

	if !performer.IsActive {
		uc.logger.Warn("CreateBooking: performer id=%d is inactive", req.PerformerID)
		return nil, ErrPerformerInactive
	}

	if performer.BasePrice <= 0 {
		uc.logger.Warn("CreateBooking: performer id=%d has no price set", req.PerformerID)
		return nil, fmt.Errorf("%w: performer has no base price", ErrInvalidInput)
	}

	// 5. Фиксируем ценовой снимок по действующей ставке комиссии
	snapshot := uc.pricing.Snapshot(ctx, performer.BasePrice)

	uc.logger.Info("CreateBooking: pricing snapshot: performer=%d, total=%d, prepayment=%d, rate=%d%%",
		snapshot.PerformerPrice, snapshot.CustomerPrice, snapshot.PrepaymentAmount, snapshot.CommissionRate)

	// 6. Район по умолчанию берём из анкеты исполнителя
	district := strings.TrimSpace(req.District)
	if district == "" {
		district = performer.District
	}

	// 7. Создаем заявку в ожидании решения исполнителя
	booking := &domain.Booking{
		CustomerID:       req.CustomerID,
		PerformerID:      req.PerformerID,
		EventDate:        req.EventDate,
		StartTime:        req.StartTime,
		Address:          strings.TrimSpace(req.Address),
		District:         district,
		Format:           req.Format,
		ChildrenCount:    req.ChildrenCount,
		ChildrenAges:     req.ChildrenAges,
		Comment:          req.Comment,
		PerformerPrice:   snapshot.PerformerPrice,
		PriceTotal:       snapshot.CustomerPrice,
		PrepaymentAmount: snapshot.PrepaymentAmount,
		CommissionRate:   snapshot.CommissionRate,
		Status:           domain.StatusPending,
		PaymentStatus:    domain.PaymentNotPaid,
	}

	created, err := uc.bookingRepo.Create(ctx, booking)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking: %v", err)
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	// 8. Уведомляем исполнителя о новой заявке
	uc.events.Publish(ctx, domain.Event{
		Type:        domain.EventBookingCreated,
		BookingID:   created.ID,
		CustomerID:  created.CustomerID,
		PerformerID: created.PerformerID,
		EventDate:   created.EventDate,
		StartTime:   created.StartTime,
		OccurredAt:  time.Now().UTC(),
	})

	uc.logger.Info("CreateBooking: successfully created booking id=%d", created.ID)

	return toResponse(created), nil
}
