package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/pkg/dbmetrics"
	"github.com/m0rozko/DMP-BookingService/pkg/psqlbuilder"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// bookingColumns полный набор колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"customer_id",
	"performer_id",
	"event_date",
	"start_time",
	"address",
	"district",
	"event_format",
	"children_count",
	"children_ages",
	"comment",
	"performer_price",
	"price_total",
	"prepayment_amount",
	"commission_rate",
	"status",
	"payment_status",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заявками
//
// Все переходы статусов выражены как compare-and-set:
// UPDATE ... WHERE id = X AND status = ожидаемый. Ноль затронутых строк
// означает проигранную гонку (ErrStatusConflict) либо отсутствие заявки
// (ErrBookingNotFound) - репозиторий различает их повторным чтением
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"performer_id",
			"event_date",
			"start_time",
			"address",
			"district",
			"event_format",
			"children_count",
			"children_ages",
			"comment",
			"performer_price",
			"price_total",
			"prepayment_amount",
			"commission_rate",
			"status",
			"payment_status",
		).
		Values(
			b.CustomerID,
			b.PerformerID,
			b.EventDate,
			b.StartTime,
			b.Address,
			b.District,
			b.Format,
			b.ChildrenCount,
			b.ChildrenAges,
			b.Comment,
			b.PerformerPrice,
			b.PriceTotal,
			b.PrepaymentAmount,
			b.CommissionRate,
			b.Status,
			b.PaymentStatus,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: заявка будет изменяться
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetByCustomer получает заявки клиента
func (r *Repository) GetByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"customer_id": filter.CustomerID}).
		OrderBy("event_date DESC, start_time DESC")

	selectBuilder = applyStatusFilter(selectBuilder, filter.Status, filter.IncludeInactive)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByPerformer получает заявки исполнителя с фильтрацией по периоду и статусу
func (r *Repository) GetByPerformer(ctx context.Context, filter domain.PerformerBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"performer_id": filter.PerformerID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"event_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"event_date": *filter.EndDate})
	}

	selectBuilder = applyStatusFilter(selectBuilder, filter.Status, filter.IncludeInactive).
		OrderBy("event_date DESC, start_time DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPerformer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPerformer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListConfirmedBefore получает подтверждённые заявки с датой выезда раньше date
// Используется планировщиком автозавершения
func (r *Repository) ListConfirmedBefore(ctx context.Context, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Lt{"event_date": date}).
		OrderBy("event_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedBefore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит заявку из статуса from в статус to
// Перевод атомарный: при несовпадении текущего статуса с ожидаемым
// возвращается ErrStatusConflict, состояние заявки не меняется
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, result, id, "UpdateStatus")
}

// CancelWithReason отменяет заявку с указанием причины
// Допустимые исходные статусы передаются в from (pending и/или confirmed)
func (r *Repository) CancelWithReason(ctx context.Context, id int64, from []domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelWithReason - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelWithReason - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, result, id, "CancelWithReason")
}

// ApplyProposal применяет принятое предложение к заявке:
// копирует дату/время, пересчитанные суммы и подтверждает заявку
// Перевод pending -> confirmed атомарный
func (r *Repository) ApplyProposal(
	ctx context.Context,
	id int64,
	eventDate time.Time,
	startTime types.TimeString,
	performerPrice, priceTotal, prepaymentAmount int64,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("event_date", eventDate).
		Set("start_time", startTime.String()).
		Set("performer_price", performerPrice).
		Set("price_total", priceTotal).
		Set("prepayment_amount", prepaymentAmount).
		Set("status", domain.StatusConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ApplyProposal - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ApplyProposal - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, result, id, "ApplyProposal")
}

// MarkPrepaymentPaid фиксирует поступление предоплаты и подтверждает заявку
// Применяется только из payment_status = not_paid: повторная доставка того же
// колбэка не находит строки и возвращает ErrStatusConflict
// Заявка должна быть ещё в работе: опоздавший колбэк по отменённой заявке
// не должен воскресить её в confirmed
func (r *Repository) MarkPrepaymentPaid(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentPrepaymentPaid).
		Set("status", domain.StatusConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": domain.PaymentNotPaid, "status": activeStatuses}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPrepaymentPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPrepaymentPaid - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, result, id, "MarkPrepaymentPaid")
}

// MarkRefunded фиксирует возврат платежа и отменяет заявку
// Применяется только из оплаченных состояний
func (r *Repository) MarkRefunded(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	paidStatuses := []domain.PaymentStatus{domain.PaymentPrepaymentPaid, domain.PaymentFullyPaid}

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentRefunded).
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": paidStatuses}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkRefunded - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, result, id, "MarkRefunded")
}

// MarkFullyPaid фиксирует полную оплату заявки
// Достижимо только из prepayment_paid (монотонность статуса оплаты)
func (r *Repository) MarkFullyPaid(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", domain.PaymentFullyPaid).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "payment_status": domain.PaymentPrepaymentPaid}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkFullyPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkFullyPaid - execute update: %v", ErrExecQuery, err)
	}

	return r.checkAffected(ctx, result, id, "MarkFullyPaid")
}

// checkAffected обрабатывает результат compare-and-set обновления:
// 0 затронутых строк означает либо отсутствие заявки, либо проигранную гонку
func (r *Repository) checkAffected(ctx context.Context, result sql.Result, id int64, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	// Различаем "не найдено" и "статус не совпал"
	if _, err := r.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	return ErrStatusConflict
}

// scanBooking сканирует одну строку в заявку
func scanBooking(row *sql.Row) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.PerformerID,
		&b.EventDate,
		&b.StartTime,
		&b.Address,
		&b.District,
		&b.Format,
		&b.ChildrenCount,
		&b.ChildrenAges,
		&b.Comment,
		&b.PerformerPrice,
		&b.PriceTotal,
		&b.PrepaymentAmount,
		&b.CommissionRate,
		&b.Status,
		&b.PaymentStatus,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс заявок
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.CustomerID,
			&b.PerformerID,
			&b.EventDate,
			&b.StartTime,
			&b.Address,
			&b.District,
			&b.Format,
			&b.ChildrenCount,
			&b.ChildrenAges,
			&b.Comment,
			&b.PerformerPrice,
			&b.PriceTotal,
			&b.PrepaymentAmount,
			&b.CommissionRate,
			&b.Status,
			&b.PaymentStatus,
			&b.CancellationReason,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// applyStatusFilter применяет фильтр по статусу либо исключает неактивные заявки
func applyStatusFilter(b squirrel.SelectBuilder, status *domain.BookingStatus, includeInactive bool) squirrel.SelectBuilder {
	if status != nil {
		return b.Where(squirrel.Eq{"status": *status})
	}
	if !includeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		return b.Where(squirrel.NotEq{"status": inactive})
	}
	return b
}
