package events

import (
	"context"

	"github.com/m0rozko/DMP-BookingService/internal/domain"
)

// Publisher интерфейс публикации доменных событий
// Сервисы публикуют события после успешной записи в БД и не знают,
// кто и как их доставляет
type Publisher interface {
	Publish(ctx context.Context, e domain.Event)
}

// Subscriber подписчик на доменные события
type Subscriber interface {
	Handle(ctx context.Context, e domain.Event)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Dispatcher раздает доменные события подписчикам внутри процесса
// Раздача синхронная и не возвращает ошибок: подписчик сам решает,
// выполнять ли работу асинхронно, и сам логирует свои сбои
type Dispatcher struct {
	subscribers []Subscriber
	logger      Logger
}

// NewDispatcher создает новый диспетчер событий
func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe регистрирует подписчика
// Вызывается при сборке приложения, до начала публикации событий
func (d *Dispatcher) Subscribe(s Subscriber) {
	d.subscribers = append(d.subscribers, s)
}

// Publish раздает событие всем подписчикам
func (d *Dispatcher) Publish(ctx context.Context, e domain.Event) {
	d.logger.Info("events: %s booking=%d", e.Type, e.BookingID)

	for _, s := range d.subscribers {
		s.Handle(ctx, e)
	}
}

// NopPublisher заглушка для тестов и утилит, которым не нужны события
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(ctx context.Context, e domain.Event) {}
