package process_webhook

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
	"github.com/m0rozko/DMP-BookingService/internal/infra/storage/webhooklog"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkPrepaymentPaid(ctx context.Context, id int64) error
	MarkRefunded(ctx context.Context, id int64) error
}

// WebhookLogRepository интерфейс журнала платёжных колбэков
type WebhookLogRepository interface {
	Append(ctx context.Context, e *webhooklog.Entry) error
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
