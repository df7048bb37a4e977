package accept_proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	storagebooking "github.com/m0rozko/DMP-BookingService/internal/infra/storage/booking"
	storageproposal "github.com/m0rozko/DMP-BookingService/internal/infra/storage/proposal"
	"github.com/m0rozko/DMP-BookingService/internal/service/pricing"
)

// UseCase use case принятия встречного предложения клиентом
//
// Принятие атомарно применяет предложение к заявке: дата/время/цена
// заменяются, суммы пересчитываются по ставке из ценового снимка заявки
// (не по текущей ставке платформы), остальные ожидающие предложения
// отклоняются, заявка подтверждается
type UseCase struct {
	bookingRepo  BookingRepository
	proposalRepo ProposalRepository
	events       EventPublisher
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	proposalRepo ProposalRepository,
	events EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		proposalRepo: proposalRepo,
		events:       events,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет use case принятия предложения
// Использует сериализуемую транзакцию: одновременное принятие двух
// предложений одной заявки или гонка с прямым принятием заявки
// исполнителем разрешаются в пользу первой зафиксированной операции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AcceptProposal: proposal=%d, customer=%d", req.ProposalID, req.CustomerID)

	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем предложение с блокировкой строки
		proposal, err := uc.proposalRepo.GetByID(txCtx, req.ProposalID)
		if err != nil {
			if errors.Is(err, storageproposal.ErrProposalNotFound) {
				uc.logger.Warn("AcceptProposal: proposal id=%d not found", req.ProposalID)
				return ErrProposalNotFound
			}
			uc.logger.Error("AcceptProposal: failed to get proposal id=%d: %v", req.ProposalID, err)
			return fmt.Errorf("%w: failed to get proposal: %v", ErrInternal, err)
		}

		if !proposal.IsPending() {
			uc.logger.Warn("AcceptProposal: proposal id=%d already resolved, status=%s",
				req.ProposalID, proposal.Status)
			return ErrProposalNotPending
		}

		// 2. Загружаем заявку с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, proposal.BookingID)
		if err != nil {
			if errors.Is(err, storagebooking.ErrBookingNotFound) {
				uc.logger.Warn("AcceptProposal: booking id=%d not found", proposal.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("AcceptProposal: failed to get booking id=%d: %v", proposal.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3. Решение по предложению принимает только клиент заявки
		if booking.CustomerID != req.CustomerID {
			uc.logger.Warn("AcceptProposal: access denied: proposal=%d, user=%d", req.ProposalID, req.CustomerID)
			return ErrAccessDenied
		}

		// 4. Заявка должна всё ещё ожидать решения
		if !booking.AllowsProposals() {
			uc.logger.Warn("AcceptProposal: booking id=%d no longer pending, status=%s",
				booking.ID, booking.Status)
			return ErrBookingNotPending
		}

		// 5. Принимаем предложение и отклоняем остальные ожидающие
		if err := uc.proposalRepo.UpdateStatus(txCtx, proposal.ID, domain.ProposalPending, domain.ProposalAccepted); err != nil {
			uc.logger.Error("AcceptProposal: failed to accept proposal id=%d: %v", proposal.ID, err)
			return fmt.Errorf("%w: failed to accept proposal: %v", ErrInternal, err)
		}

		if err := uc.proposalRepo.RejectSiblings(txCtx, booking.ID, proposal.ID); err != nil {
			uc.logger.Error("AcceptProposal: failed to reject siblings: booking=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reject sibling proposals: %v", ErrInternal, err)
		}

		// 6. Пересчитываем суммы по ставке из снимка заявки:
		// изменение комиссии платформы не влияет на уже созданные заявки
		performerPrice := proposal.EffectivePerformerPrice(booking.PerformerPrice)
		snapshot := pricing.BuildSnapshot(performerPrice, booking.CommissionRate)

		uc.logger.Info("AcceptProposal: recalculated pricing: performer=%d, total=%d, prepayment=%d, rate=%d%%",
			snapshot.PerformerPrice, snapshot.CustomerPrice, snapshot.PrepaymentAmount, snapshot.CommissionRate)

		// 7. Применяем предложение к заявке и подтверждаем её
		err = uc.bookingRepo.ApplyProposal(
			txCtx,
			booking.ID,
			proposal.ProposedDate,
			proposal.ProposedTime,
			snapshot.PerformerPrice,
			snapshot.CustomerPrice,
			snapshot.PrepaymentAmount,
		)
		if err != nil {
			if errors.Is(err, storagebooking.ErrStatusConflict) {
				return ErrBookingNotPending
			}
			uc.logger.Error("AcceptProposal: failed to apply proposal to booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to apply proposal: %v", ErrInternal, err)
		}

		// Собираем результат из известных значений, не перечитывая строку
		booking.EventDate = proposal.ProposedDate
		booking.StartTime = proposal.ProposedTime
		booking.PerformerPrice = snapshot.PerformerPrice
		booking.PriceTotal = snapshot.CustomerPrice
		booking.PrepaymentAmount = snapshot.PrepaymentAmount
		booking.Status = domain.StatusConfirmed

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 8. Публикуем событие после коммита транзакции
	uc.events.Publish(ctx, domain.Event{
		Type:        domain.EventProposalAccepted,
		BookingID:   result.ID,
		CustomerID:  result.CustomerID,
		PerformerID: result.PerformerID,
		EventDate:   result.EventDate,
		StartTime:   result.StartTime,
		OccurredAt:  time.Now().UTC(),
	})

	uc.logger.Info("AcceptProposal: proposal id=%d applied to booking id=%d", req.ProposalID, result.ID)

	return toResponse(result, req.ProposalID), nil
}
