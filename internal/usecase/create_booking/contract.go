package create_booking

import (
	"context"
	"time"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/integrations/profileservice"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetCustomer(ctx context.Context, customerID int64) (*profileservice.Customer, error)
	GetPerformer(ctx context.Context, performerID int64) (*profileservice.Performer, error)
}

// PricingCalculator интерфейс калькулятора цен
type PricingCalculator interface {
	Snapshot(ctx context.Context, performerPrice int64) domain.PricingSnapshot
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, e domain.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
