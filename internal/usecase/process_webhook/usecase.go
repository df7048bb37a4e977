package process_webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	storagebooking "github.com/m0rozko/DMP-BookingService/internal/infra/storage/booking"
	"github.com/m0rozko/DMP-BookingService/internal/infra/storage/webhooklog"
)

// mappedNone статус журнала для колбэков, не меняющих заявку
const mappedNone = "none"

// UseCase use case обработки колбэка платёжного шлюза
//
// Шлюз доставляет колбэки at-least-once, поэтому обработка идемпотентна:
// переходы статуса оплаты выражены как compare-and-set, повторная доставка
// не находит строки в исходном статусе и подтверждается без побочных
// эффектов. Уведомление сторонам уходит только при фактическом изменении.
// Каждый колбэк, включая повторные и нераспознанные, попадает в журнал
type UseCase struct {
	bookingRepo BookingRepository
	webhookLog  WebhookLogRepository
	events      EventPublisher
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	webhookLog WebhookLogRepository,
	events EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		webhookLog:  webhookLog,
		events:      events,
		logger:      logger,
	}
}

// Execute выполняет use case обработки колбэка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ProcessWebhook: invoice=%s, booking=%d, status=%s",
		req.InvoiceID, req.BookingID, req.GatewayStatus)

	// 1. Валидация колбэка
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.InvoiceID) == "" {
		return nil, fmt.Errorf("%w: invoiceId is required", ErrInvalidInput)
	}

	status := ParseGatewayStatus(req.GatewayStatus)
	if status == GatewayUnknown {
		uc.logger.Warn("ProcessWebhook: unknown gateway status %q: invoice=%s, booking=%d",
			req.GatewayStatus, req.InvoiceID, req.BookingID)
	}

	// 2. Применяем колбэк к заявке
	var (
		applied   bool
		applyErr  error
		mapped    = mappedNone
		eventType domain.EventType
	)

	switch status {
	case GatewayPaid:
		mapped = string(domain.PaymentPrepaymentPaid)
		eventType = domain.EventPaymentConfirmed
		applied, applyErr = uc.apply(ctx, req, uc.bookingRepo.MarkPrepaymentPaid)

	case GatewayRefunded:
		mapped = string(domain.PaymentRefunded)
		eventType = domain.EventPaymentRefunded
		applied, applyErr = uc.apply(ctx, req, uc.bookingRepo.MarkRefunded)

	case GatewayCreated, GatewayPending, GatewayDeclined, GatewayExpired, GatewayUnknown:
		// Промежуточные, неуспешные и нераспознанные статусы заявку не меняют
		// declined/expired по уже оплаченной заявке тоже попадают сюда:
		// оплата монотонна и назад не откатывается
	}

	// 3. Пишем колбэк в журнал, включая неуспешно обработанные
	entry := &webhooklog.Entry{
		InvoiceID:      req.InvoiceID,
		BookingID:      req.BookingID,
		GatewayStatus:  req.GatewayStatus,
		MappedStatus:   mapped,
		AmountValue:    req.AmountValue,
		AmountCurrency: req.AmountCurrency,
		TransactionID:  req.TransactionID,
		PaidAt:         req.PaidAt,
		Payload:        req.Payload,
	}
	if err := uc.webhookLog.Append(ctx, entry); err != nil {
		// Заявка уже изменена, колбэк нельзя отдавать шлюзу на повтор
		// из-за сбоя журнала - логируем и подтверждаем
		uc.logger.Error("ProcessWebhook: failed to append webhook log: invoice=%s, booking=%d: %v",
			req.InvoiceID, req.BookingID, err)
	}

	if applyErr != nil {
		return nil, applyErr
	}

	// 4. Уведомляем стороны только при фактическом изменении
	if applied {
		booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			uc.logger.Error("ProcessWebhook: failed to reload booking id=%d for event: %v", req.BookingID, err)
		} else {
			uc.events.Publish(ctx, domain.Event{
				Type:        eventType,
				BookingID:   booking.ID,
				CustomerID:  booking.CustomerID,
				PerformerID: booking.PerformerID,
				EventDate:   booking.EventDate,
				StartTime:   booking.StartTime,
				OccurredAt:  time.Now().UTC(),
			})
		}
	}

	uc.logger.Info("ProcessWebhook: processed: invoice=%s, booking=%d, applied=%t, mapped=%s",
		req.InvoiceID, req.BookingID, applied, mapped)

	return &Response{
		BookingID:    req.BookingID,
		Applied:      applied,
		MappedStatus: mapped,
	}, nil
}

// apply выполняет compare-and-set переход статуса оплаты
// Возвращает false без ошибки, если переход уже применён ранее
// (повторная доставка колбэка) либо заявка в несовместимом статусе оплаты
func (uc *UseCase) apply(ctx context.Context, req *Request, fn func(ctx context.Context, id int64) error) (bool, error) {
	err := fn(ctx, req.BookingID)
	if err == nil {
		return true, nil
	}

	switch {
	case errors.Is(err, storagebooking.ErrStatusConflict):
		uc.logger.Info("ProcessWebhook: duplicate or out-of-order callback, acknowledging: invoice=%s, booking=%d",
			req.InvoiceID, req.BookingID)
		return false, nil

	case errors.Is(err, storagebooking.ErrBookingNotFound):
		uc.logger.Warn("ProcessWebhook: booking id=%d not found, gateway will retry", req.BookingID)
		return false, ErrBookingNotFound

	default:
		uc.logger.Error("ProcessWebhook: failed to apply payment status: booking=%d: %v", req.BookingID, err)
		return false, fmt.Errorf("%w: failed to apply payment status: %v", ErrInternal, err)
	}
}
