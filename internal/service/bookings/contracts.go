package bookings

import (
	"context"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomer(ctx context.Context, filter domain.CustomerBookingsFilter) ([]*domain.Booking, error)
	GetByPerformer(ctx context.Context, filter domain.PerformerBookingsFilter) ([]*domain.Booking, error)
	ListConfirmedBefore(ctx context.Context, date time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	CancelWithReason(ctx context.Context, id int64, from []domain.BookingStatus, reason string) error
}

// ProposalRepository интерфейс репозитория предложений
type ProposalRepository interface {
	Create(ctx context.Context, p *domain.BookingProposal) (*domain.BookingProposal, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingProposal, error)
	GetByBooking(ctx context.Context, bookingID int64) ([]*domain.BookingProposal, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ProposalStatus) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, e domain.Event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
