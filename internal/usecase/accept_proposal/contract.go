package accept_proposal

import (
	"context"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ApplyProposal(
		ctx context.Context,
		id int64,
		eventDate time.Time,
		startTime types.TimeString,
		performerPrice, priceTotal, prepaymentAmount int64,
	) error
}

// ProposalRepository интерфейс репозитория предложений
type ProposalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingProposal, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ProposalStatus) error
	RejectSiblings(ctx context.Context, bookingID, acceptedID int64) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, e domain.Event)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
