package proposal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/pkg/dbmetrics"
	"github.com/m0rozko/DMP-BookingService/pkg/psqlbuilder"
)

var proposalColumns = []string{
	"id",
	"booking_id",
	"proposed_date",
	"proposed_time",
	"proposed_price",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий встречных предложений исполнителя
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория предложений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое предложение
func (r *Repository) Create(ctx context.Context, p *domain.BookingProposal) (*domain.BookingProposal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_proposals").
		Columns(
			"booking_id",
			"proposed_date",
			"proposed_time",
			"proposed_price",
			"status",
		).
		Values(
			p.BookingID,
			p.ProposedDate,
			p.ProposedTime,
			p.ProposedPrice,
			p.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetByID получает предложение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingProposal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(proposalColumns...).
		From("booking_proposals").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.BookingProposal
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.BookingID,
		&p.ProposedDate,
		&p.ProposedTime,
		&p.ProposedPrice,
		&p.Status,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProposalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan proposal: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// GetByBooking получает все предложения по заявке
func (r *Repository) GetByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingProposal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(proposalColumns...).
		From("booking_proposals").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	proposals := make([]*domain.BookingProposal, 0)
	for rows.Next() {
		var p domain.BookingProposal
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.ProposedDate,
			&p.ProposedTime,
			&p.ProposedPrice,
			&p.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBooking - scan row: %v", ErrScanRow, err)
		}

		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time

		proposals = append(proposals, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - rows error: %v", ErrScanRow, err)
	}

	return proposals, nil
}

// UpdateStatus переводит предложение из статуса from в статус to
// Compare-and-set: при несовпадении текущего статуса возвращается ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.ProposalStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_proposals").
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

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrProposalNotFound) {
			return ErrProposalNotFound
		}
		return err
	}

	return ErrStatusConflict
}

// RejectSiblings отклоняет все ожидающие предложения заявки, кроме принятого
// Вызывается в одной транзакции с принятием предложения:
// в каждый момент у заявки может быть не больше одного принятого предложения
func (r *Repository) RejectSiblings(ctx context.Context, bookingID, acceptedID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_proposals").
		Set("status", domain.ProposalRejected).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "status": domain.ProposalPending}).
		Where(squirrel.NotEq{"id": acceptedID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RejectSiblings - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RejectSiblings - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
