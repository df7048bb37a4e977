package webhooklog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m0rozko/DMP-BookingService/pkg/dbmetrics"
	"github.com/m0rozko/DMP-BookingService/pkg/psqlbuilder"
)

// Entry запись журнала колбэков платёжного шлюза
// Журнал append-only: записи никогда не изменяются и не удаляются,
// используются для аудита и разбора спорных платежей
type Entry struct {
	ID            uuid.UUID
	InvoiceID     string
	BookingID     int64
	GatewayStatus string
	MappedStatus  string

	AmountValue    int64
	AmountCurrency string
	TransactionID  string
	PaidAt         *time.Time

	Payload    []byte
	ReceivedAt time.Time
}

// Repository репозиторий журнала платёжных колбэков
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал
// Записывается каждый полученный колбэк независимо от результата обработки
func (r *Repository) Append(ctx context.Context, e *Entry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("payment_webhook_log").
		Columns(
			"id",
			"invoice_id",
			"booking_id",
			"gateway_status",
			"mapped_status",
			"amount_value",
			"amount_currency",
			"transaction_id",
			"paid_at",
			"payload",
		).
		Values(
			e.ID,
			e.InvoiceID,
			e.BookingID,
			e.GatewayStatus,
			e.MappedStatus,
			e.AmountValue,
			e.AmountCurrency,
			e.TransactionID,
			e.PaidAt,
			e.Payload,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
